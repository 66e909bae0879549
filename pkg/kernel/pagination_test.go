package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]string{"a", "b"}, PaginationOptions{Page: 2, PageSize: 2}, 5)

	assert.Equal(t, 3, p.Page.Pages)
	assert.Equal(t, 5, p.Page.Total)
	assert.False(t, p.Empty)
}

func TestNewPaginated_Empty(t *testing.T) {
	p := NewPaginated[string](nil, PaginationOptions{Page: 1, PageSize: 20}, 0)

	assert.NotNil(t, p.Items)
	assert.True(t, p.Empty)
	assert.Equal(t, 0, p.Page.Pages)
}

func TestPaginationOptions_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationOptions{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationOptions{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationOptions{Page: 0, PageSize: 20}.Offset())
}

func TestSkillName_Key(t *testing.T) {
	assert.Equal(t, "node.js", SkillName(" Node.js ").Key())
}
