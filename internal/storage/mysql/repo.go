package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel_finder/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func f64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// likeContains builds a LIKE pattern matching s anywhere, with s's own wildcards escaped.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Repo is the MySQL-backed store for hotels, users and travel content.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Ping checks connectivity for readiness probes.
func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) SearchByCity(ctx context.Context, city string) ([]domain.HotelRecord, error) {
	rows, err := r.db.QueryContext(ctx, searchHotelsByCitySQL, likeContains(city))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelRecord
	for rows.Next() {
		var (
			h             domain.HotelRecord
			price, rating sql.NullFloat64
			addr, desc    sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &price, &rating, &addr, &desc); err != nil {
			return nil, err
		}
		h.Price, h.Rating = f64Ptr(price), f64Ptr(rating)
		h.Address, h.Description = strPtr(addr), strPtr(desc)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CountByCities(ctx context.Context, cities []string) (int, error) {
	if len(cities) == 0 {
		return 0, nil
	}
	args := make([]any, len(cities))
	for i, c := range cities {
		args[i] = c
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE city IN ("+placeholders(len(cities))+")", args...).Scan(&n)
	return n, err
}

// InsertMissing checks and inserts inside one transaction. Two concurrent resolutions of the
// same city can still both insert; the existence check is not a lock.
func (r *Repo) InsertMissing(ctx context.Context, recs []domain.HotelRecord) ([]domain.HotelRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	var out []domain.HotelRecord
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := tx.PrepareContext(ctx, hotelExistsSQL)
		if err != nil {
			return err
		}
		defer exists.Close()
		ins, err := tx.PrepareContext(ctx, insertHotelSQL)
		if err != nil {
			return err
		}
		defer ins.Close()

		for _, h := range recs {
			var found bool
			if err := exists.QueryRowContext(ctx, h.Name, h.City).Scan(&found); err != nil {
				return fmt.Errorf("check %q: %w", h.Name, err)
			}
			if found {
				continue
			}
			res, err := ins.ExecContext(ctx, h.Name, h.City, valF64(h.Price), valF64(h.Rating), valStr(h.Address), valStr(h.Description))
			if err != nil {
				return fmt.Errorf("insert %q: %w", h.Name, err)
			}
			if h.ID, err = res.LastInsertId(); err != nil {
				return err
			}
			out = append(out, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ReplaceCities(ctx context.Context, cities []string, recs []domain.HotelRecord) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if len(cities) > 0 {
			args := make([]any, len(cities))
			for i, c := range cities {
				args[i] = c
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM hotels WHERE city IN ("+placeholders(len(cities))+")", args...); err != nil {
				return fmt.Errorf("delete reference cities: %w", err)
			}
		}
		if len(recs) == 0 {
			return nil
		}
		values := make([]string, 0, len(recs))
		args := make([]any, 0, len(recs)*6)
		for _, h := range recs {
			values = append(values, "(?,?,?,?,?,?)")
			args = append(args, h.Name, h.City, valF64(h.Price), valF64(h.Rating), valStr(h.Address), valStr(h.Description))
		}
		q := "INSERT INTO hotels (name, city, price, rating, address, description) VALUES " + strings.Join(values, ",")
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert reference hotels: %w", err)
		}
		return nil
	})
}

// withTx commits when fn succeeds and rolls back otherwise.
func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, rbErr)
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
