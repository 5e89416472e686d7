package paginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	infos := Describe([]string{"first\nsecond line", "", "héllo"})

	assert.Equal(t, []PageInfo{
		{Index: 0, Length: 17, LineCount: 2, FirstLine: "first", LastLine: "second line"},
		{Index: 1, Length: 0, LineCount: 1, FirstLine: "", LastLine: ""},
		{Index: 2, Length: 5, LineCount: 1, FirstLine: "héllo", LastLine: "héllo"},
	}, infos)
}
