package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imwes/linkfinder/internal/domain"
)

func TestStore_CreatesOnFirstUse(t *testing.T) {
	st := NewStore(time.Hour)

	s := st.Get(42)
	require.NotNil(t, s)
	assert.Equal(t, int64(42), s.ID)
	assert.Equal(t, 0, s.Selection.Len())
	assert.Same(t, s, st.Get(42))
	assert.NotSame(t, s, st.Get(43))
	assert.Equal(t, 2, st.Len())
}

func TestStore_ConcurrentGetSameSession(t *testing.T) {
	st := NewStore(time.Hour)

	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = st.Get(7)
		}()
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestStore_IdleExpiry(t *testing.T) {
	st := NewStore(30 * time.Millisecond)

	s := st.Get(1)
	s.Selection.Set(domain.MonthCategory, "Январь")
	time.Sleep(60 * time.Millisecond)

	fresh := st.Get(1)
	assert.NotSame(t, s, fresh)
	assert.True(t, fresh.Selection.IsEmpty(domain.MonthCategory))
}

func TestStore_Drop(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Get(1)
	st.Drop(1)
	assert.NotSame(t, s, st.Get(1))
}

func TestSession_Tokens(t *testing.T) {
	s := NewStore(time.Hour).Get(1)

	_, ok := s.Lookup("m:0")
	assert.False(t, ok)

	s.Bind("m:0", Target{Kind: TargetMonth, Category: domain.MonthCategory, Label: "Январь"})
	s.Bind("o:0:1", Target{Kind: TargetOption, Category: "Тема", Label: "Безопасность"})

	got, ok := s.Lookup("o:0:1")
	require.True(t, ok)
	assert.Equal(t, Target{Kind: TargetOption, Category: "Тема", Label: "Безопасность"}, got)
}

func TestSession_Reset(t *testing.T) {
	s := NewStore(time.Hour).Get(1)
	s.Selection.Set(domain.MonthCategory, "Январь")
	s.Selection.Set("Тема", "Безопасность")
	s.Catalog = domain.Catalog{"Январь": "db1"}
	s.Tags = domain.TagSchema{"Тема": {"Безопасность": "t1"}}
	s.Bind("m:0", Target{Kind: TargetMonth, Label: "Январь"})

	s.Reset()

	assert.Equal(t, 0, s.Selection.Len())
	assert.Nil(t, s.Catalog)
	assert.Nil(t, s.Tags)
	_, ok := s.Lookup("m:0")
	assert.False(t, ok, "tokens issued before reset must expire")
}
