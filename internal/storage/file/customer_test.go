package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/petrobahia/internal/domain/customer"
)

func TestCustomerRepository_SaveAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes.txt")
	repo, err := NewCustomerRepository(path)
	require.NoError(t, err)

	ctx := context.Background()
	ana := customer.Customer{Name: "Ana Paula", Email: "ana@petrobahia.com", CNPJ: "123"}
	require.NoError(t, repo.Save(ctx, ana))
	require.NoError(t, repo.Save(ctx, customer.Customer{Name: "Carlos", Email: "carlos@petrobahia.com", CNPJ: "456"}))

	got, err := repo.FindByEmail(ctx, "ana@petrobahia.com")
	require.NoError(t, err)
	assert.Equal(t, ana, *got)

	_, err = repo.FindByEmail(ctx, "nobody@petrobahia.com")
	require.ErrorIs(t, err, customer.ErrNotFound)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula|ana@petrobahia.com|123\nCarlos|carlos@petrobahia.com|456\n", string(data))
}

func TestCustomerRepository_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes.txt")
	content := "Ana Paula|ana@petrobahia.com|123\nmalformed line\n\nMaria|maria@petrobahia.com|789\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewCustomerRepository(path)
	require.NoError(t, err)

	got, err := repo.FindByEmail(context.Background(), "maria@petrobahia.com")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
}

func TestCustomerRepository_MissingFileIsEmpty(t *testing.T) {
	repo, err := NewCustomerRepository(filepath.Join(t.TempDir(), "none.txt"))
	require.NoError(t, err)

	_, err = repo.FindByEmail(context.Background(), "ana@petrobahia.com")
	require.ErrorIs(t, err, customer.ErrNotFound)
}

func TestCustomerRepository_RejectsSeparator(t *testing.T) {
	repo, err := NewCustomerRepository(filepath.Join(t.TempDir(), "clientes.txt"))
	require.NoError(t, err)

	err = repo.Save(context.Background(), customer.Customer{Name: "A|B", Email: "a@b.com", CNPJ: "1"})
	require.Error(t, err)
}

func TestCustomerRepository_EmailCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ana|Ana@X.com|123\n"), 0o644))

	repo, err := NewCustomerRepository(path)
	require.NoError(t, err)

	got, err := repo.FindByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	svc := customer.NewService(repo, nopNotifier{})
	res := svc.Register(context.Background(), customer.Customer{Name: "Ana", Email: "Ana@X.com", CNPJ: "123"})
	assert.False(t, res.Success)
	require.ErrorIs(t, res.Err, customer.ErrAlreadyRegistered)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ana|Ana@X.com|123\n", string(data))
}

type nopNotifier struct{}

func (nopNotifier) Welcome(context.Context, customer.Customer) error { return nil }
