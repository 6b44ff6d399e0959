package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// MediaTypeVideo — тип медиафайла для кейсов с камерой.
const MediaTypeVideo = "video"

// RecordFile — открытый файл, в который пишет рекордер.
type RecordFile struct {
	Name      string
	MediaType string
	Path      string
	FD        uintptr

	file *os.File
}

// URL возвращает адрес файла в виде fd://N.
func (f *RecordFile) URL() string {
	return "fd://" + strconv.FormatUint(uint64(f.FD), 10)
}

// Close закрывает дескриптор. Повторный вызов безопасен.
func (f *RecordFile) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// FileStore создаёт файлы записи в каталоге.
type FileStore struct {
	Dir string
}

// RecordFileName возвращает имя файла для n-го кейса.
func RecordFileName(caseCount int) string {
	return fmt.Sprintf("avRecorder_func_0%d.mp4", caseCount)
}

// Open создаёт (или перезаписывает) файл и возвращает его дескриптор.
func (s FileStore) Open(name, mediaType string) (*RecordFile, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}

	return &RecordFile{
		Name:      name,
		MediaType: mediaType,
		Path:      path,
		FD:        file.Fd(),
		file:      file,
	}, nil
}
