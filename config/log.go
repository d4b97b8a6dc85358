package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sirupsen/logrus"
)

const (
	LOG_MAX_AGE       = 30 * 24 * time.Hour
	LOG_ROTATION_TIME = 24 * time.Hour
)

// InitLog sends common.Log to stdout and a daily rotated file under
// conf.Log.Path.
func InitLog(conf *YamlConf) error {
	logPath := "./log/unknown"
	lvl := logrus.InfoLevel
	if conf != nil {
		logPath = conf.Log.Path
		if l, err := logrus.ParseLevel(conf.Log.Level); err == nil {
			lvl = l
		}
	}

	writer, err := newRotateWriter(logPath, "", LOG_MAX_AGE)
	if err != nil {
		return err
	}
	common.Log.SetOutput(io.MultiWriter(writer, os.Stdout))
	common.Log.SetLevel(lvl)
	return nil
}

// newRotateWriter 按天切分, name 为空时使用可执行文件名
func newRotateWriter(dir, suffix string, maxAge time.Duration) (io.Writer, error) {
	exePath, _ := os.Executable()
	name := filepath.Base(exePath) + suffix
	dir = filepath.Clean(dir)
	fileHook, err := rotatelogs.New(
		filepath.Join(dir, name+".%Y%m%d%H%M.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, name+".log")),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(LOG_ROTATION_TIME),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RotateFile hook, error: %s", err)
	}
	return fileHook, nil
}

// NewRpcLogWriter is the access log writer of the rpc server.
func NewRpcLogWriter(dir string) (io.Writer, error) {
	if dir == "" {
		return os.Stdout, nil
	}
	fileHook, err := newRotateWriter(dir, ".rpc", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return io.MultiWriter(fileHook, os.Stdout), nil
}
