// Package file stores customers in a flat text file, one
// "name|email|cnpj" record per line.
package file

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"

	"github.com/xenking/petrobahia/internal/domain/customer"
)

const (
	separator      = "|"
	bloomCapacity  = 100_000
	bloomFPR       = 0.001
	filePermission = 0o644
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository on top of an
// append-only file. A bloom filter of known emails lets FindByEmail skip the
// file scan for emails that were never saved.
type CustomerRepository struct {
	path string

	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewCustomerRepository opens the repository at path, loading the emails of
// any existing records. A missing file is treated as empty.
func NewCustomerRepository(path string) (*CustomerRepository, error) {
	r := &CustomerRepository{
		path: path,
		seen: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
	err := r.scan(func(c customer.Customer) bool {
		r.seen.AddString(emailKey(c.Email))
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	return r, nil
}

// Save appends c to the file.
func (r *CustomerRepository) Save(_ context.Context, c customer.Customer) error {
	for _, v := range []string{c.Name, c.Email, c.CNPJ} {
		if strings.ContainsAny(v, separator+"\n\r") {
			return errors.Errorf("field %q contains a reserved character", v)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePermission)
	if err != nil {
		return errors.Wrapf(err, "open %s", r.path)
	}
	line := strings.Join([]string{c.Name, c.Email, c.CNPJ}, separator) + "\n"
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", r.path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", r.path)
	}

	r.seen.AddString(emailKey(c.Email))
	return nil
}

// FindByEmail returns the first customer saved with email.
func (r *CustomerRepository) FindByEmail(_ context.Context, email string) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.seen.TestString(emailKey(email)) {
		return nil, customer.ErrNotFound
	}

	var found *customer.Customer
	err := r.scan(func(c customer.Customer) bool {
		if strings.EqualFold(c.Email, email) {
			found = &c
			return false
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan customers")
	}
	if found == nil {
		return nil, customer.ErrNotFound
	}
	return found, nil
}

// emailKey folds case so records written before emails were normalized
// still match.
func emailKey(email string) string {
	return strings.ToLower(email)
}

// scan calls fn for each well-formed record until fn returns false.
// Malformed lines are skipped.
func (r *CustomerRepository) scan(fn func(customer.Customer) bool) error {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "open %s", r.path)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), separator)
		if len(parts) != 3 {
			continue
		}
		if !fn(customer.Customer{Name: parts[0], Email: parts[1], CNPJ: parts[2]}) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", r.path)
	}
	return nil
}
