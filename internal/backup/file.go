package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/julianstephens/habithub/internal/constants"
)

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), constants.CompressedFileExt)
}

func compress(val []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func decompress(val []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(val, nil)
}

// ExportFile writes an export to path, compressing it when the name ends in .zst
func (s *Service) ExportFile(path string, format Format) error {
	var buf bytes.Buffer
	if err := s.Export(&buf, format); err != nil {
		return err
	}

	data := buf.Bytes()
	if isCompressed(path) {
		var err error
		if data, err = compress(data); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			s.log.Warn("failed to remove temporary file", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ImportFile restores a JSON export from path, decompressing .zst files
func (s *Service) ImportFile(path string) (ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to read import file: %w", err)
	}
	if isCompressed(path) {
		if data, err = decompress(data); err != nil {
			return ImportReport{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}
	return s.ImportJSON(bytes.NewReader(data))
}
