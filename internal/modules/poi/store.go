// README: POI catalog persistence: PostgreSQL store plus an in-memory
// seeded store for DSN-less deployments and tests.
package poi

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("poi not found")

// Store is the catalog contract the service works against.
type Store interface {
	List(ctx context.Context) ([]POI, error)
	Get(ctx context.Context, id int64) (POI, error)
	Create(ctx context.Context, p POI) (POI, error)
	Update(ctx context.Context, p POI) error
	Delete(ctx context.Context, id int64) error
}

// ─── PostgreSQL ───────────────────────────────────────────────────────────

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) List(ctx context.Context) ([]POI, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, category, rating, address,
		       hours_open, hours_close, services, lat, lng
		FROM pois ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []POI
	for rows.Next() {
		var p POI
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Rating,
			&p.Address, &p.Hours.Open, &p.Hours.Close, &p.Services,
			&p.Coords.Lat, &p.Coords.Lng); err != nil {
			return nil, err
		}
		pois = append(pois, p)
	}
	return pois, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, id int64) (POI, error) {
	var p POI
	err := s.db.QueryRow(ctx, `
		SELECT id, name, description, category, rating, address,
		       hours_open, hours_close, services, lat, lng
		FROM pois WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Rating,
			&p.Address, &p.Hours.Open, &p.Hours.Close, &p.Services,
			&p.Coords.Lat, &p.Coords.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return POI{}, ErrNotFound
	}
	return p, err
}

func (s *PGStore) Create(ctx context.Context, p POI) (POI, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO pois (name, description, category, rating, address,
		                  hours_open, hours_close, services, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.Name, p.Description, p.Category, p.Rating, p.Address,
		p.Hours.Open, p.Hours.Close, p.Services, p.Coords.Lat, p.Coords.Lng).
		Scan(&p.ID)
	return p, err
}

func (s *PGStore) Update(ctx context.Context, p POI) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE pois SET name=$2, description=$3, category=$4, rating=$5,
		       address=$6, hours_open=$7, hours_close=$8, services=$9,
		       lat=$10, lng=$11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.Rating, p.Address,
		p.Hours.Open, p.Hours.Close, p.Services, p.Coords.Lat, p.Coords.Lng)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── In-memory ────────────────────────────────────────────────────────────

type MemStore struct {
	mu     sync.RWMutex
	pois   map[int64]POI
	nextID int64
}

// NewMemStore builds a store pre-populated with the given catalog.
func NewMemStore(seed []POI) *MemStore {
	s := &MemStore{pois: make(map[int64]POI), nextID: 1}
	for _, p := range seed {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.pois[p.ID] = p
	}
	return s
}

func (s *MemStore) List(ctx context.Context) ([]POI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]POI, 0, len(s.pois))
	for _, p := range s.pois {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (POI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pois[id]
	if !ok {
		return POI{}, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) Create(ctx context.Context, p POI) (POI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.pois[p.ID] = p
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, p POI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pois[p.ID]; !ok {
		return ErrNotFound
	}
	s.pois[p.ID] = p
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pois[id]; !ok {
		return ErrNotFound
	}
	delete(s.pois, id)
	return nil
}
