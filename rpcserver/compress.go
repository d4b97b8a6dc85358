package rpcserver

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

const (
	ENCODING_BROTLI = "br"
	ENCODING_GZIP   = "gzip"
)

type compressWriter struct {
	gin.ResponseWriter
	writer io.WriteCloser
}

func (w *compressWriter) Write(data []byte) (int, error) {
	w.Header().Del("Content-Length")
	return w.writer.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

// acceptedEncoding prefers brotli over gzip.
func acceptedEncoding(header string) string {
	var gz bool
	for _, part := range strings.Split(header, ",") {
		enc := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch enc {
		case ENCODING_BROTLI:
			return ENCODING_BROTLI
		case ENCODING_GZIP:
			gz = true
		}
	}
	if gz {
		return ENCODING_GZIP
	}
	return ""
}

// CompressionMiddleware compresses responses with brotli or gzip, as the
// client accepts. Swagger assets are left alone.
func CompressionMiddleware(excludedPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range excludedPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		var writer io.WriteCloser
		encoding := acceptedEncoding(c.GetHeader("Accept-Encoding"))
		switch encoding {
		case ENCODING_BROTLI:
			writer = brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression)
		case ENCODING_GZIP:
			gz, err := gzip.NewWriterLevel(c.Writer, gzip.DefaultCompression)
			if err != nil {
				c.Next()
				return
			}
			writer = gz
		default:
			c.Next()
			return
		}

		c.Header(CONTENT_ENCODING, encoding)
		c.Writer.Header().Add(VARY, "Accept-Encoding")
		c.Writer = &compressWriter{ResponseWriter: c.Writer, writer: writer}
		defer writer.Close()
		c.Next()
	}
}
