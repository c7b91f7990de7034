package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"livedraw/internal/ink"
)

// 文件扩展名
const (
	InkExt   = ".fdw"
	ImageExt = ".png"
)

// 文件名前缀
const (
	QuickSavePrefix    = "QuickSave_"
	ExitAutoSavePrefix = "ExitingAutoSave_"
	ImageExportPrefix  = "ImageExport_"
)

// DefaultDirectoryName 默认保存目录名
const DefaultDirectoryName = "Save"

// ErrNothingToSave 画布为空
var ErrNothingToSave = errors.New("nothing to save")

// Storage 墨迹文件存储管理
type Storage struct {
	directory string
	codec     ink.Codec
	now       func() time.Time
}

// NewStorage 创建存储管理器
func NewStorage(directory string, codec ink.Codec) *Storage {
	if codec == nil {
		codec = ink.NewCodec()
	}
	return &Storage{
		directory: directory,
		codec:     codec,
		now:       time.Now,
	}
}

// SetClock 替换时钟（测试用）
func (s *Storage) SetClock(now func() time.Time) {
	s.now = now
}

// SetDirectory 设置保存目录
func (s *Storage) SetDirectory(dir string) error {
	s.directory = ExpandHome(dir)
	return os.MkdirAll(s.directory, 0755)
}

// GetDirectory 获取保存目录
func (s *Storage) GetDirectory() string {
	return s.directory
}

// FileName 生成 <prefix><yyyyMMdd-HHmmss><ext>
func (s *Storage) FileName(prefix, ext string) string {
	return prefix + s.now().Format("20060102-150405") + ext
}

// Save 以 prefix 命名保存到存储目录，返回文件路径
func (s *Storage) Save(prefix string, strokes []*ink.Stroke) (string, error) {
	if len(strokes) == 0 {
		return "", ErrNothingToSave
	}
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}

	path := filepath.Join(s.directory, s.FileName(prefix, InkExt))
	if err := s.SaveTo(path, strokes); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo 保存到指定路径，失败时删除写了一半的文件
func (s *Storage) SaveTo(path string, strokes []*ink.Stroke) (err error) {
	if len(strokes) == 0 {
		return ErrNothingToSave
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := s.codec.Encode(file, strokes); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load 读取墨迹文件
func (s *Storage) Load(path string) ([]*ink.Stroke, error) {
	file, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	strokes, err := s.codec.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return strokes, nil
}

// Latest 存储目录中最新的墨迹文件
func (s *Storage) Latest() (string, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.directory, err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), InkExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{filepath.Join(s.directory, entry.Name()), info.ModTime()})
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no %s files in %s: %w", InkExt, s.directory, os.ErrNotExist)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].mod.Equal(files[j].mod) {
			return files[i].path > files[j].path
		}
		return files[i].mod.After(files[j].mod)
	})
	return files[0].path, nil
}

// Cleanup 清理早于 olderThan 的墨迹文件，返回删除数量
func (s *Storage) Cleanup(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), InkExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.directory, entry.Name())); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// ExpandHome 展开开头的 ~
func ExpandHome(dir string) string {
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}
	return dir
}
