// Package store implementa a coleção em memória usada pelos serviços de recursos
// (livros, usuários, pedidos, avaliações). Cada serviço constrói a sua própria
// instância; não existe estado global.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound é retornado quando nenhum registro possui o id informado
var ErrNotFound = errors.New("record not found")

// Record é o contrato que um tipo precisa cumprir para ser guardado no MemoryStore
type Record[T any] interface {
	RecordID() string
	AssignID(id string)
	Clone() T
}

// Option configura um MemoryStore
type Option func(*options)

type options struct {
	newID func() string
}

// WithIDGenerator substitui o gerador de ids padrão (uuid v4). O gerador roda sob o lock do store.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// MemoryStore guarda registros em ordem de inserção, protegidos por um único RWMutex
type MemoryStore[T Record[T]] struct {
	mu      sync.RWMutex
	records []T
	newID   func() string
}

// New cria um MemoryStore vazio
func New[T Record[T]](opts ...Option) *MemoryStore[T] {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	return &MemoryStore[T]{
		records: make([]T, 0),
		newID:   o.newID,
	}
}

// Insert atribui um novo id ao registro, guarda uma cópia e retorna outra cópia
func (s *MemoryStore[T]) Insert(record T) T {
	stored := record.Clone()

	s.mu.Lock()
	stored.AssignID(s.newID())
	s.records = append(s.records, stored)
	s.mu.Unlock()

	return stored.Clone()
}

// Find busca um registro pelo id
func (s *MemoryStore[T]) Find(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	return s.records[i].Clone(), nil
}

// Filter retorna os registros que satisfazem pred, na ordem de inserção
func (s *MemoryStore[T]) Filter(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, r := range s.records {
		if pred(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// All retorna todos os registros
func (s *MemoryStore[T]) All() []T {
	return s.Filter(func(T) bool { return true })
}

// Update aplica fn sobre uma cópia do registro e só grava o resultado se fn não falhar.
// O lock de escrita é mantido durante toda a operação.
func (s *MemoryStore[T]) Update(id string, fn func(T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	working := s.records[i].Clone()
	if err := fn(working); err != nil {
		return zero, err
	}

	s.records[i] = working
	return working.Clone(), nil
}

// RemoveByID remove e retorna o registro com o id informado
func (s *MemoryStore[T]) RemoveByID(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}

	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return removed, nil
}

// Len retorna a quantidade de registros guardados
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexOf deve ser chamado com o lock adquirido
func (s *MemoryStore[T]) indexOf(id string) int {
	for i, r := range s.records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}
