// Package gzipp is the built-in gzip message plugin: it compresses outbound
// payloads and decompresses inbound ones.
package gzipp

import (
	"bytes"
	"compress/gzip"
	"io"

	"rdbridge/pkg/plugins"
)

type plugin struct{}

func init() {
	plugins.Register("gzip", func(options map[string]string) (plugins.Plugin, error) {
		return &plugin{}, nil
	})
}

func (p *plugin) Name() string { return "gzip" }

func (p *plugin) Info() string { return "compresses messages with gzip" }

func (p *plugin) TransformMessage(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *plugin) RestoreMessage(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
