package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDensifyVector(t *testing.T) {
	t.Run("Places values at their indices", func(t *testing.T) {
		// Given: a sparse vector with two occupied cells
		sparse := map[string]string{"0": "X", "8": "O"}

		// When: it is densified to 9 cells
		dense := DensifyVector(sparse, 9)

		// Then: values land and the rest stays zero
		require.Len(t, dense, 9)
		require.Equal(t, "X", dense[0])
		require.Equal(t, "O", dense[8])
		require.Equal(t, "", dense[4])
	})

	t.Run("Drops unparsable and out-of-range keys", func(t *testing.T) {
		// Given: a sparse vector with hostile keys
		sparse := map[string]string{"abc": "X", "-1": "X", "9": "X", "2": "O"}

		// When: it is densified
		dense := DensifyVector(sparse, 9)

		// Then: only the valid key survives
		require.Equal(t, "O", dense[2])
		for index, value := range dense {
			if index != 2 {
				require.Empty(t, value)
			}
		}
	})

	t.Run("Nil input yields an empty vector", func(t *testing.T) {
		// When: nothing is on the wire
		dense := DensifyVector[string](nil, 3)

		// Then: the vector exists and is all zero values
		require.Equal(t, []string{"", "", ""}, dense)
	})
}

func TestSparsifyVector(t *testing.T) {
	// Given: a dense vector with two occupied cells
	dense := []string{"X", "", "", "", "O", "", "", "", ""}

	// When: it is sparsified
	sparse := SparsifyVector(dense, func(cell string) bool { return cell != "" })

	// Then: only occupied cells travel
	require.Equal(t, map[string]string{"0": "X", "4": "O"}, sparse)
}

func TestDensifyGrid(t *testing.T) {
	t.Run("Rebuilds a sparse grid", func(t *testing.T) {
		// Given: two discs on a 6x7 wire grid
		sparse := map[string]map[string]string{
			"0": {"0": "X"},
			"2": {"6": "O"},
		}

		// When: it is densified
		dense := DensifyGrid(sparse, 6, 7)

		// Then: both cells land, everything else stays empty
		require.Len(t, dense, 6)
		require.Len(t, dense[0], 7)
		require.Equal(t, "X", dense[0][0])
		require.Equal(t, "O", dense[2][6])
		require.Empty(t, dense[5][3])
	})

	t.Run("Drops out-of-range rows and columns", func(t *testing.T) {
		// Given: coordinates beyond the grid
		sparse := map[string]map[string]string{
			"6": {"0": "X"},
			"1": {"7": "X", "3": "O"},
		}

		// When: it is densified
		dense := DensifyGrid(sparse, 6, 7)

		// Then: only the in-range cell survives
		require.Equal(t, "O", dense[1][3])
		require.Empty(t, dense[1][6])
	})
}

func TestSparsifyGrid(t *testing.T) {
	// Given: a dense grid with a single disc
	dense := make([][]string, 6)
	for row := range dense {
		dense[row] = make([]string, 7)
	}
	dense[5][3] = "X"

	// When: it is sparsified
	sparse := SparsifyGrid(dense, func(cell string) bool { return cell != "" })

	// Then: one row with one column travels
	require.Equal(t, map[string]map[string]string{"5": {"3": "X"}}, sparse)
}
