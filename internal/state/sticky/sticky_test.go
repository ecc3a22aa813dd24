package sticky

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdder struct {
	added  []string
	failOn map[string]error
}

func (f *fakeAdder) AddItem(ctx context.Context, productID string, quantity int, unitPrice float64) error {
	if err := f.failOn[productID]; err != nil {
		return err
	}
	f.added = append(f.added, productID)
	return nil
}

func TestTotalsMatchSelection(t *testing.T) {
	s := New(nil)

	assert.Equal(t, Totals{}, s.Totals(), "empty selection totals to zero")

	s.AddOrUpdate("latte", 2, 1500)
	s.AddOrUpdate("raf", 1, 1800)

	got := s.Totals()
	assert.Equal(t, 3, got.Items)
	assert.Equal(t, 2*1500.0+1800.0, got.Amount)
	assert.True(t, s.State().Visible)
}

func TestAddOrUpdateReplacesQuantity(t *testing.T) {
	s := New(nil)
	s.AddOrUpdate("p1", 2, 500)
	s.AddOrUpdate("p1", 3, 500)

	got := s.Totals()
	assert.Equal(t, 3, got.Items, "upsert replaces, it does not add")
	assert.Equal(t, 1500.0, got.Amount)
}

func TestAddOrUpdateZeroRemoves(t *testing.T) {
	s := New(nil)
	s.AddOrUpdate("p1", 2, 500)
	s.AddOrUpdate("p2", 1, 300)
	s.AddOrUpdate("p1", 0, 500)

	st := s.State()
	assert.Equal(t, []string{"p2"}, st.Selected)
	assert.True(t, st.Visible)

	s.AddOrUpdate("p2", -1, 300)
	st = s.State()
	assert.Empty(t, st.Selected)
	assert.False(t, st.Visible)
}

func TestClearHidesAndResets(t *testing.T) {
	s := New(nil)
	s.AddOrUpdate("p1", 2, 500)
	s.Clear()

	st := s.State()
	assert.Empty(t, st.Selected)
	assert.Empty(t, st.Quantities)
	assert.False(t, st.Visible)
	assert.Equal(t, Totals{}, s.Totals())
}

func TestCommitFullSuccessClearsSelection(t *testing.T) {
	s := New(nil)
	s.AddOrUpdate("p1", 2, 500)
	s.AddOrUpdate("p2", 1, 300)

	adder := &fakeAdder{}
	res := s.Commit(context.Background(), adder)

	assert.Equal(t, 2, res.ItemsCount)
	assert.Equal(t, 3, res.TotalItems)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{"p1", "p2"}, adder.added, "insertion order preserved")
	assert.Empty(t, s.State().Selected)
	assert.False(t, s.State().Visible)
}

func TestCommitPartialFailureKeepsFailedForRetry(t *testing.T) {
	s := New(nil)
	s.AddOrUpdate("p1", 2, 500)
	s.AddOrUpdate("p2", 1, 300)
	s.AddOrUpdate("p3", 4, 700)

	adder := &fakeAdder{failOn: map[string]error{"p2": errors.New("out of stock")}}
	res := s.Commit(context.Background(), adder)

	assert.Equal(t, 2, res.ItemsCount)
	assert.Equal(t, 6, res.TotalItems)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "p2", res.Failed[0].ProductID)
	assert.Equal(t, "out of stock", res.Failed[0].Message)

	st := s.State()
	assert.Equal(t, []string{"p2"}, st.Selected, "failed item stays selected")
	assert.True(t, st.Visible)
	assert.Equal(t, Totals{Amount: 300, Items: 1}, s.Totals())
}
