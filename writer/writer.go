package writer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/lexich/openapi/configurator"
)

type Writer struct {
	config *configurator.Config `di.inject:"config"`

	// stdout is where "-" writes go. Nil means os.Stdout.
	stdout io.Writer
}

func New(config *configurator.Config, stdout io.Writer) *Writer {
	return &Writer{config: config, stdout: stdout}
}

// Write stores code at the configured output, "-" being standard output.
func (writer *Writer) Write(code string) error {
	if writer.config.Output == configurator.Stdout {
		out := writer.stdout
		if out == nil {
			out = os.Stdout
		}

		if _, err := io.WriteString(out, code); err != nil {
			return errors.Wrap(err, "failed writing to stdout")
		}

		return nil
	}

	return writer.write(writer.config.Output, code)
}

func (writer *Writer) write(into string, code string) error {
	if err := writer.checkDir(filepath.Dir(into)); err != nil {
		return err
	}

	file, err := os.OpenFile(into, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed opening file '%s'", into)
	}

	if _, err := io.WriteString(file, code); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "failed writing into file '%s'", into)
	}

	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "failed closing file '%s'", into)
	}

	return nil
}

// checkDir creates path when missing and fails when it is not a directory.
func (writer *Writer) checkDir(path string) error {
	isDir, err := writer.isDir(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return errors.Wrapf(err, "failed creating dir '%s'", path)
		}

		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "failed checking dir '%s'", path)
	}

	if !isDir {
		return errors.Newf("failed checking dir '%s': not directory", path)
	}

	return nil
}

func (writer *Writer) isDir(path string) (bool, error) {
	file, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return file.IsDir(), nil
}
