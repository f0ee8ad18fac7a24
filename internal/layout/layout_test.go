package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOriginalFilename(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"000000_0", 0},
		{"000000_0_copy_1", 1},
		{"000000_0_copy_42", 42},
	}
	for _, c := range cases {
		got, err := ParseOriginalFilename(c.name)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestParseOriginalFilenameBadCopyIndex(t *testing.T) {
	_, err := ParseOriginalFilename("000000_0_copy_oops")
	require.Error(t, err)
}

func TestParseDelta(t *testing.T) {
	p, err := ParseDelta("delta_0000001_0000001")
	require.NoError(t, err)
	require.Equal(t, int32(0), p.StatementID)

	p, err = ParseDelta("delta_0000001_0000001_0000042")
	require.NoError(t, err)
	require.Equal(t, int32(42), p.StatementID)

	p, err = ParseDelta("/warehouse/t/delta_0000001_0000003_0000002")
	require.NoError(t, err)
	require.Equal(t, int32(2), p.StatementID)
	require.Equal(t, "/warehouse/t/delta_0000001_0000003_0000002", p.Path)
}

func TestParseDeltaMalformed(t *testing.T) {
	_, err := ParseDelta("not_a_delta_dir")
	require.Error(t, err)
}

func TestSortOriginalFiles(t *testing.T) {
	files := []OriginalFile{
		{Path: "000000_0_copy_2", CopyIndex: 2},
		{Path: "000000_0", CopyIndex: 0},
		{Path: "000000_0_copy_1", CopyIndex: 1},
	}
	SortOriginalFiles(files)
	require.Equal(t, "000000_0", files[0].Path)
	require.Equal(t, "000000_0_copy_1", files[1].Path)
	require.Equal(t, "000000_0_copy_2", files[2].Path)
}

func TestAcidStatsHasMutations(t *testing.T) {
	require.False(t, AcidStats{Inserts: 5}.HasMutations())
	require.True(t, AcidStats{Updates: 1}.HasMutations())
	require.True(t, AcidStats{Deletes: 1}.HasMutations())
}

func TestBucketKeyStable(t *testing.T) {
	require.Equal(t, BucketKey("/a/b/c"), BucketKey("/a/b/c"))
	require.NotEqual(t, BucketKey("/a/b/c"), BucketKey("/a/b/d"))
}
