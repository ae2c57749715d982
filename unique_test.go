package rc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnique(t *testing.T) {
	r1, r2 := &resource{}, &resource{}
	u := NewUnique(r1)
	assert.Same(t, r1, u.Get())
	assert.True(t, u.Valid())
	assert.IsType(t, DefaultDelete[resource]{}, u.Deleter())

	u.Reset(r2)
	assert.Equal(t, 1, r1.destroys)
	assert.Same(t, r2, u.Get())

	u.Reset(r2)
	assert.Equal(t, 0, r2.destroys, "resetting to the owned pointer keeps it")

	p := u.Release()
	assert.Same(t, r2, p)
	assert.False(t, u.Valid())
	u.Reset(nil)
	assert.Equal(t, 0, r2.destroys)
}

func TestUniqueWithDeleter(t *testing.T) {
	rec := &recorder[resource]{}
	r := &resource{}
	u := NewUniqueWithDeleter(r, rec)
	assert.Same(t, rec, u.Deleter())

	u.Reset(nil)
	assert.Equal(t, []*resource{r}, rec.calls)
	assert.Equal(t, 0, r.destroys)
}

func TestUniqueMoveSwap(t *testing.T) {
	rec := &recorder[resource]{}
	r1, r2 := &resource{}, &resource{}
	a := NewUniqueWithDeleter(r1, rec)
	b := NewUnique(r2)

	m := a.Move()
	assert.False(t, a.Valid())
	assert.Same(t, r1, m.Get())
	assert.Same(t, rec, m.Deleter())

	m.Swap(b)
	assert.Same(t, r2, m.Get())
	assert.Same(t, r1, b.Get())
	assert.Same(t, rec, b.Deleter())

	b.Reset(nil)
	m.Reset(nil)
	assert.Equal(t, []*resource{r1}, rec.calls)
	assert.Equal(t, 1, r2.destroys)

	var nilUnique *Unique[resource]
	assert.Nil(t, nilUnique.Get())
	assert.False(t, nilUnique.Valid())
}
