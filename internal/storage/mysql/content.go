package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel_finder/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// queryAll runs q and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func insertID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

/********** blog **********/

func scanBlogPost(s rowScanner) (domain.BlogPost, error) {
	var p domain.BlogPost
	var img sql.NullString
	err := s.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &img, &p.AuthorID, &p.CreatedAt)
	p.ImageURL = strPtr(img)
	return p, err
}

func (r *Repo) ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error) {
	return queryAll(ctx, r.db, scanBlogPost, listBlogPostsSQL)
}

func (r *Repo) GetBlogPost(ctx context.Context, id int64) (domain.BlogPost, error) {
	p, err := scanBlogPost(r.db.QueryRowContext(ctx, getBlogPostSQL, id))
	return p, notFound(err)
}

func (r *Repo) CreateBlogPost(ctx context.Context, p domain.BlogPost) (domain.BlogPost, error) {
	id, err := insertID(r.db.ExecContext(ctx, insertBlogPostSQL,
		p.Title, p.Content, p.Category, valStr(p.ImageURL), p.AuthorID, p.CreatedAt))
	if err != nil {
		return domain.BlogPost{}, err
	}
	return r.GetBlogPost(ctx, id)
}

func (r *Repo) UpdateBlogPost(ctx context.Context, p domain.BlogPost) error {
	res, err := r.db.ExecContext(ctx, updateBlogPostSQL, p.Title, p.Content, p.Category, valStr(p.ImageURL), p.ID)
	if err != nil {
		return err
	}
	// affected rows is 0 both for a missing id and an unchanged row
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetBlogPost(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

/********** city guides **********/

func scanCityGuide(s rowScanner) (domain.CityGuide, error) {
	var g domain.CityGuide
	var img sql.NullString
	err := s.Scan(&g.ID, &g.CityName, &g.Description, &g.Attractions, &g.BestTimeToVisit, &img)
	g.ImageURL = strPtr(img)
	return g, err
}

func (r *Repo) ListCityGuides(ctx context.Context) ([]domain.CityGuide, error) {
	return queryAll(ctx, r.db, scanCityGuide, listCityGuidesSQL)
}

func (r *Repo) GetCityGuide(ctx context.Context, id int64) (domain.CityGuide, error) {
	g, err := scanCityGuide(r.db.QueryRowContext(ctx, getCityGuideSQL, id))
	return g, notFound(err)
}

func (r *Repo) CreateCityGuide(ctx context.Context, g domain.CityGuide) (domain.CityGuide, error) {
	id, err := insertID(r.db.ExecContext(ctx, insertCityGuideSQL,
		g.CityName, g.Description, g.Attractions, g.BestTimeToVisit, valStr(g.ImageURL)))
	if err != nil {
		return domain.CityGuide{}, err
	}
	g.ID = id
	return g, nil
}

/********** events **********/

func scanEvent(s rowScanner) (domain.Event, error) {
	var e domain.Event
	var img sql.NullString
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.City, &e.Venue, &e.StartDate, &e.EndDate, &img)
	e.ImageURL = strPtr(img)
	return e, err
}

func (r *Repo) ListEventsFrom(ctx context.Context, from time.Time) ([]domain.Event, error) {
	return queryAll(ctx, r.db, scanEvent, listEventsFromSQL, from)
}

func (r *Repo) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, getEventSQL, id))
	return e, notFound(err)
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	id, err := insertID(r.db.ExecContext(ctx, insertEventSQL,
		e.Title, e.Description, e.City, e.Venue, e.StartDate, e.EndDate, valStr(e.ImageURL)))
	if err != nil {
		return domain.Event{}, err
	}
	e.ID = id
	return e, nil
}

/********** restaurants **********/

func scanRestaurant(s rowScanner) (domain.Restaurant, error) {
	var x domain.Restaurant
	var img sql.NullString
	err := s.Scan(&x.ID, &x.Name, &x.Description, &x.City, &x.Address, &x.CuisineType, &x.PriceRange, &x.Rating, &img)
	x.ImageURL = strPtr(img)
	return x, err
}

func (r *Repo) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	if city == "" {
		return queryAll(ctx, r.db, scanRestaurant, listRestaurantsSQL)
	}
	return queryAll(ctx, r.db, scanRestaurant, listRestaurantsByCitySQL, city)
}

func (r *Repo) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	x, err := scanRestaurant(r.db.QueryRowContext(ctx, getRestaurantSQL, id))
	return x, notFound(err)
}

func (r *Repo) CreateRestaurant(ctx context.Context, x domain.Restaurant) (domain.Restaurant, error) {
	id, err := insertID(r.db.ExecContext(ctx, insertRestaurantSQL,
		x.Name, x.Description, x.City, x.Address, x.CuisineType, x.PriceRange, x.Rating, valStr(x.ImageURL)))
	if err != nil {
		return domain.Restaurant{}, err
	}
	x.ID = id
	return x, nil
}

/********** transportation **********/

func scanTransportation(s rowScanner) (domain.Transportation, error) {
	var t domain.Transportation
	err := s.Scan(&t.ID, &t.City, &t.TransportType, &t.Description, &t.Routes, &t.Schedule, &t.PriceInfo)
	return t, err
}

func (r *Repo) ListTransportation(ctx context.Context, city string) ([]domain.Transportation, error) {
	if city == "" {
		return queryAll(ctx, r.db, scanTransportation, listTransportationSQL)
	}
	return queryAll(ctx, r.db, scanTransportation, listTransportationByCitySQL, city)
}

func (r *Repo) GetTransportation(ctx context.Context, id int64) (domain.Transportation, error) {
	t, err := scanTransportation(r.db.QueryRowContext(ctx, getTransportationSQL, id))
	return t, notFound(err)
}

func (r *Repo) CreateTransportation(ctx context.Context, t domain.Transportation) (domain.Transportation, error) {
	id, err := insertID(r.db.ExecContext(ctx, insertTransportationSQL,
		t.City, t.TransportType, t.Description, t.Routes, t.Schedule, t.PriceInfo))
	if err != nil {
		return domain.Transportation{}, err
	}
	t.ID = id
	return t, nil
}
