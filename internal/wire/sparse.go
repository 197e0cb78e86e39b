// Package wire converts between the dense in-memory boards the game logic
// works on and the sparse coordinate-keyed maps the record transport
// carries. The transport drops empty cells, so a board travels as
// {"0":{"0":"X"},"2":{"6":"O"}} and has to be rebuilt into a fixed-size
// matrix on receipt. Densifying is total: missing, partial or out-of-range
// input never fails, absent cells default to the zero value.
package wire

import "strconv"

// DensifyVector rebuilds a fixed-length slice from an index-keyed map.
// Keys that do not parse or fall outside [0,size) are dropped.
func DensifyVector[T any](sparse map[string]T, size int) []T {
	dense := make([]T, size)
	for key, value := range sparse {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= size {
			continue
		}
		dense[index] = value
	}
	return dense
}

// SparsifyVector keeps only the cells isSet reports as occupied.
func SparsifyVector[T any](dense []T, isSet func(T) bool) map[string]T {
	sparse := make(map[string]T)
	for index, value := range dense {
		if isSet(value) {
			sparse[strconv.Itoa(index)] = value
		}
	}
	return sparse
}

// DensifyGrid rebuilds a rows×cols matrix from a row-then-column keyed map.
func DensifyGrid[T any](sparse map[string]map[string]T, rows, cols int) [][]T {
	dense := make([][]T, rows)
	for row := range dense {
		dense[row] = make([]T, cols)
	}
	for rowKey, line := range sparse {
		row, err := strconv.Atoi(rowKey)
		if err != nil || row < 0 || row >= rows {
			continue
		}
		for colKey, value := range line {
			col, err := strconv.Atoi(colKey)
			if err != nil || col < 0 || col >= cols {
				continue
			}
			dense[row][col] = value
		}
	}
	return dense
}

// SparsifyGrid keeps only the cells isSet reports as occupied.
func SparsifyGrid[T any](dense [][]T, isSet func(T) bool) map[string]map[string]T {
	sparse := make(map[string]map[string]T)
	for row, line := range dense {
		for col, value := range line {
			if !isSet(value) {
				continue
			}
			rowKey := strconv.Itoa(row)
			if sparse[rowKey] == nil {
				sparse[rowKey] = make(map[string]T)
			}
			sparse[rowKey][strconv.Itoa(col)] = value
		}
	}
	return sparse
}
