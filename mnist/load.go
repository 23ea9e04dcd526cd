// Package mnist reads the MNIST idx image and label files.
package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

const (
	ImageMagic = 2051
	LabelMagic = 2049

	// Classes is the number of digit labels.
	Classes = 10

	// MaxPayload caps the bytes a header may declare, well above the
	// 47M pixels of the MNIST training set.
	MaxPayload = 1 << 28
)

// Images holds normalized pixel intensities in a (count, rows*cols) tensor.
type Images struct {
	Rows, Cols int
	data       *tensor.Dense
}

func (im *Images) Len() int { return im.data.Shape()[0] }

// Features is the length of one flattened image.
func (im *Images) Features() int { return im.Rows * im.Cols }

func (im *Images) Tensor() *tensor.Dense { return im.data }

// Vectors returns one vector per image. The vectors share the tensor's backing.
func (im *Images) Vectors() []*mat.VecDense {
	return rowViews(im.data.Data().([]float64), im.Len(), im.Features())
}

// Labels holds digit classes and their one-hot (count, Classes) encoding.
type Labels struct {
	classes []int
	oneHot  *tensor.Dense
}

func (l *Labels) Len() int { return len(l.classes) }

func (l *Labels) Class(i int) int { return l.classes[i] }

func (l *Labels) Tensor() *tensor.Dense { return l.oneHot }

// Vectors returns the one-hot target for each label.
func (l *Labels) Vectors() []*mat.VecDense {
	return rowViews(l.oneHot.Data().([]float64), l.Len(), Classes)
}

func rowViews(data []float64, rows, cols int) []*mat.VecDense {
	views := make([]*mat.VecDense, rows)
	for i := range views {
		views[i] = mat.NewVecDense(cols, data[i*cols:(i+1)*cols:(i+1)*cols])
	}
	return views
}

// ReadImages loads an idx3 image file. Files ending in .gz are decompressed.
func ReadImages(path string) (*Images, error) {
	var images *Images
	err := withReader(path, func(r io.Reader) error {
		var err error
		images, err = DecodeImages(r)
		return err
	})
	return images, err
}

// ReadLabels loads an idx1 label file. Files ending in .gz are decompressed.
func ReadLabels(path string) (*Labels, error) {
	var labels *Labels
	err := withReader(path, func(r io.Reader) error {
		var err error
		labels, err = DecodeLabels(r)
		return err
	})
	return labels, err
}

func withReader(path string, decode func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return &FileOpenError{Path: path, Err: err}
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return &FormatError{Path: path, Reason: fmt.Sprintf("gzip: %v", err)}
		}
		defer gz.Close()
		r = gz
	}

	err = decode(r)
	var ferr *FormatError
	if errors.As(err, &ferr) && ferr.Path == "" {
		ferr.Path = path
	}
	return err
}

// DecodeImages parses an idx3 image stream: a big-endian header of magic,
// count, rows and cols followed by one unsigned byte per pixel. Each byte is
// scaled to [0, 1].
func DecodeImages(r io.Reader) (*Images, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("reading image header: %v", err)}
	}
	if header.Magic != ImageMagic {
		return nil, &FormatError{Reason: fmt.Sprintf("image magic number %d, want %d", header.Magic, ImageMagic)}
	}
	if header.Count == 0 || header.Rows == 0 || header.Cols == 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("empty image set %dx%dx%d", header.Count, header.Rows, header.Cols)}
	}

	features := uint64(header.Rows) * uint64(header.Cols)
	if features > MaxPayload || uint64(header.Count) > MaxPayload/features {
		return nil, &FormatError{Reason: fmt.Sprintf("image set %dx%dx%d exceeds %d bytes", header.Count, header.Rows, header.Cols, MaxPayload)}
	}
	count := int(header.Count)
	raw, err := readPayload(r, int64(count)*int64(features))
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("reading %d images: %v", count, err)}
	}
	norm := make([]float64, len(raw))
	for i, b := range raw {
		norm[i] = float64(b) / 255.0
	}

	return &Images{
		Rows: int(header.Rows),
		Cols: int(header.Cols),
		data: tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(count, int(features)), tensor.WithBacking(norm)),
	}, nil
}

// DecodeLabels parses an idx1 label stream: a big-endian magic and count
// followed by one byte per label in [0, Classes).
func DecodeLabels(r io.Reader) (*Labels, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("reading label header: %v", err)}
	}
	if header.Magic != LabelMagic {
		return nil, &FormatError{Reason: fmt.Sprintf("label magic number %d, want %d", header.Magic, LabelMagic)}
	}
	if header.Count == 0 {
		return nil, &FormatError{Reason: "empty label set"}
	}

	if header.Count > MaxPayload {
		return nil, &FormatError{Reason: fmt.Sprintf("label count %d exceeds %d", header.Count, MaxPayload)}
	}
	raw, err := readPayload(r, int64(header.Count))
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("reading %d labels: %v", header.Count, err)}
	}
	classes := make([]int, len(raw))
	for i, b := range raw {
		if int(b) >= Classes {
			return nil, &FormatError{Reason: fmt.Sprintf("label %d at index %d out of range", b, i)}
		}
		classes[i] = int(b)
	}
	return &Labels{classes: classes, oneHot: oneHotEncode(classes, Classes)}, nil
}

// readPayload reads exactly n bytes, growing the buffer as data arrives so a
// truncated file fails without allocating what its header declares.
func readPayload(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func oneHotEncode(labels []int, numClasses int) *tensor.Dense {
	norm := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		norm[i*numClasses+label] = 1.0
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(len(labels), numClasses), tensor.WithBacking(norm))
}
