package utils

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// ReadBinary reads a little-endian dump written by WriteBinary.
func ReadBinary[T any](filename string) ([]T, error) {

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	var zero T
	numElements := int(fileInfo.Size()) / binary.Size(zero)
	data := make([]T, numElements)

	err = binary.Read(file, binary.LittleEndian, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func WriteBinary[T any](filename string, data []T) error {

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	err = binary.Write(file, binary.LittleEndian, data)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return file.Close()
}

// WriteTxt writes one line per element, formatted by f.
func WriteTxt[V, T any](filename string, data []T, f func(T) V) error {

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, element := range data {
		_, err := fmt.Fprintln(w, f(element))
		if err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return file.Close()
}
