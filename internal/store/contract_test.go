package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleOrder(n int) pedidos.Order {
	created := baseTime.Add(time.Duration(n) * time.Minute)
	user := pedidos.User{
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      "USER",
		Addresses: []string{"Calle Mayor 1"},
		Active:    true,
		CreatedAt: baseTime,
	}
	return pedidos.Order{
		ID:   pedidos.NewID(),
		User: user,
		Tasks: []pedidos.Task{{
			ID: pedidos.NewID(),
			Product: pedidos.Product{
				ID:        fmt.Sprintf("P%d", n),
				Name:      "Pantalla",
				Category:  pedidos.CategoryPiece,
				Stock:     3,
				Price:     float64(10 + n),
				Active:    true,
				CreatedAt: baseTime,
				UpdatedAt: baseTime,
			},
			Employee:  user,
			CreatedAt: created,
		}},
		TaxRate:   0.21,
		Status:    pedidos.StatusInProcess,
		CreatedAt: created,
	}
}

func assertSameOrder(t *testing.T, want, got pedidos.Order) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.User.Username, got.User.Username)
	assert.Equal(t, want.User.Addresses, got.User.Addresses)
	assert.Equal(t, want.TaxRate, got.TaxRate)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	require.Len(t, got.Tasks, len(want.Tasks))
	for i := range want.Tasks {
		assert.Equal(t, want.Tasks[i].ID, got.Tasks[i].ID)
		assert.Equal(t, want.Tasks[i].Product.ID, got.Tasks[i].Product.ID)
		assert.Equal(t, want.Tasks[i].Price(), got.Tasks[i].Price())
		assert.Equal(t, want.Tasks[i].Employee.Username, got.Tasks[i].Employee.Username)
	}
	assert.Equal(t, want.Total(), got.Total())
}

// runRepositoryContract exercises the behaviour every pedidos.Repository
// must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) pedidos.Repository) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		repo := newRepo(t)
		o := sampleOrder(1)
		_, err := repo.Save(ctx, o)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assertSameOrder(t, o, got)
	})

	t.Run("save replaces by id", func(t *testing.T) {
		repo := newRepo(t)
		o := sampleOrder(1)
		_, err := repo.Save(ctx, o)
		require.NoError(t, err)

		o.Status = pedidos.StatusDelivered
		o.Tasks = append(o.Tasks, sampleOrder(2).Tasks...)
		_, err = repo.Save(ctx, o)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assertSameOrder(t, o, got)

		res, err := repo.GetByPage(ctx, 0, 10)
		require.NoError(t, err)
		assert.Len(t, res.Collect(), 1)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, pedidos.NewID())
		assert.ErrorIs(t, err, pedidos.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, pedidos.ErrInvalidID)
		assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), pedidos.ErrInvalidID)
		_, err = repo.Save(ctx, pedidos.Order{ID: "nope"})
		assert.ErrorIs(t, err, pedidos.ErrInvalidID)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		o := sampleOrder(1)
		_, err := repo.Save(ctx, o)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, o.ID))
		require.NoError(t, repo.Delete(ctx, o.ID))

		_, err = repo.GetByID(ctx, o.ID)
		assert.ErrorIs(t, err, pedidos.ErrNotFound)
	})

	t.Run("invalid page", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByPage(ctx, -1, 10)
		assert.ErrorIs(t, err, pedidos.ErrInvalidPage)
		_, err = repo.GetByPage(ctx, 0, 0)
		assert.ErrorIs(t, err, pedidos.ErrInvalidPage)
	})

	t.Run("pages reconstruct the collection", func(t *testing.T) {
		repo := newRepo(t)
		const n = 7
		saved := map[string]bool{}
		for i := 0; i < n; i++ {
			o := sampleOrder(i)
			_, err := repo.Save(ctx, o)
			require.NoError(t, err)
			saved[o.ID] = true
		}

		for _, size := range []int{1, 2, 3, 7, 10} {
			seen := map[string]bool{}
			total := 0
			pages := (n + size - 1) / size
			for page := 0; page < pages; page++ {
				res, err := repo.GetByPage(ctx, page, size)
				require.NoError(t, err)
				assert.Equal(t, page, res.Page())
				items := res.Collect()
				assert.LessOrEqual(t, len(items), size)
				for _, o := range items {
					assert.False(t, seen[o.ID], "duplicate %s with size %d", o.ID, size)
					assert.True(t, saved[o.ID])
					seen[o.ID] = true
				}
				total += len(items)
			}
			assert.Equal(t, n, total, "size %d", size)

			res, err := repo.GetByPage(ctx, pages, size)
			require.NoError(t, err)
			assert.Empty(t, res.Collect(), "page past the end, size %d", size)
		}
	})
}
