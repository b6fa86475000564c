package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document represents a processed PDF
type Document struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	PageCount int       `json:"page_count"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Layout and word geometry used during processing, not stored in the DB
	Segments  []SegmentBox `json:"-"`
	WordBoxes []WordBox    `json:"-"`
}

// NewDocumentFromFile creates a Document for a PDF on disk.
// The title defaults to the filename without extension, and source to the file path.
func NewDocumentFromFile(filePath string, metadata Metadata) (*Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	filename := filepath.Base(filePath)
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if title == "" {
		title = filename
	}

	return &Document{
		RID:      uuid.New(),
		Title:    title,
		Source:   filePath,
		Metadata: metadata,
	}, nil
}

// PageLabel returns the page identifier stored with every mention.
func (d *Document) PageLabel(pageNumber int) string {
	return fmt.Sprintf("%s - p:%d", d.Title, pageNumber)
}

// WordBoxesOnPage returns the word boxes of one page in reading order.
func (d *Document) WordBoxesOnPage(pageNumber int) []WordBox {
	var boxes []WordBox
	for _, w := range d.WordBoxes {
		if w.PageNumber == pageNumber {
			boxes = append(boxes, w)
		}
	}
	return boxes
}
