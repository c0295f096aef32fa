// Package fasta extracts raw DNA sequences from FASTA files. The codec
// itself only ever sees a plain string of letters; this collaborator
// strips the line-based header markers first.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads FASTA content and returns the concatenation of all
// sequence lines, skipping '>' description lines. Plain text without
// any descriptions passes through unchanged.
func Parse(r io.Reader) (string, error) {
	var sequence strings.Builder

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			continue
		}
		sequence.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading sequence: %w", err)
	}

	return sequence.String(), nil
}

// ReadFile loads a sequence from a file. Plain text files work too,
// since their lines never start with a description marker.
func ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open sequence file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}
