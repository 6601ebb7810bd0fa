package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"sync"

	"github.com/shopfront/storefront/pkg/storage"
)

// ImageDir is the storage directory holding product images.
const ImageDir = "images"

var slotPattern = regexp.MustCompile(`(\d+)\.jpeg$`)

// ImageSlots hands out sequential image names ("images/7.jpeg"). Scanning
// the directory and writing the file happen under one lock, and the highest
// number handed out is remembered, so two uploads in this process never get
// the same name even if a file is deleted in between.
type ImageSlots struct {
	mu   sync.Mutex
	disk storage.Disk
	high int
}

func NewImageSlots(disk storage.Disk) *ImageSlots {
	return &ImageSlots{disk: disk}
}

// Next reports the name the next Store would use.
func (s *ImageSlots) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.next(ctx)
	if err != nil {
		return "", err
	}
	return slotPath(n), nil
}

// Store writes content under the next free name and returns its path.
func (s *ImageSlots) Store(ctx context.Context, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.next(ctx)
	if err != nil {
		return "", err
	}
	p := slotPath(n)
	if err := s.disk.Put(ctx, p, content); err != nil {
		return "", err
	}
	s.high = n
	return p, nil
}

func (s *ImageSlots) next(ctx context.Context) (int, error) {
	files, err := s.disk.Files(ctx, ImageDir)
	if err != nil {
		return 0, fmt.Errorf("image slots: list %s: %w", ImageDir, err)
	}
	highest := s.high
	for _, f := range files {
		m := slotPattern.FindStringSubmatch(path.Base(f))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func slotPath(n int) string {
	return path.Join(ImageDir, strconv.Itoa(n)+".jpeg")
}
