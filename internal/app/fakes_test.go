package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"hotel_finder/internal/domain"
)

// ---- fakes ----

// fakeStore mimics the MySQL store: case-insensitive substring search, case-insensitive
// (name, city) uniqueness on insert, and strict-mode column widths that fail the whole batch.
type fakeStore struct {
	mu      sync.Mutex
	rows    []domain.HotelRecord
	nextID  int64
	failGet error
	failTx  error
	inserts int

	replaceDelay time.Duration
	replaces     int32
	replacing    int32
	replacePeak  int32
}

var errDataTooLong = errors.New("data too long for column")

func fits(r domain.HotelRecord) bool {
	return utf8.RuneCountInString(r.Name) <= 255 &&
		utf8.RuneCountInString(r.City) <= 100 &&
		utf8.RuneCountInString(deref(r.Address)) <= 255 &&
		len(deref(r.Description)) <= 65535
}

func (f *fakeStore) SearchByCity(ctx context.Context, city string) ([]domain.HotelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	needle := strings.ToLower(city)
	var out []domain.HotelRecord
	for _, r := range f.rows {
		if strings.Contains(strings.ToLower(r.City), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByCities(ctx context.Context, cities []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		for _, c := range cities {
			if strings.EqualFold(r.City, c) {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeStore) InsertMissing(ctx context.Context, recs []domain.HotelRecord) ([]domain.HotelRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTx != nil {
		return nil, f.failTx
	}
	for _, r := range recs {
		if !fits(r) {
			return nil, errDataTooLong
		}
	}
	var out []domain.HotelRecord
	for _, r := range recs {
		if f.has(r.Name, r.City) {
			continue
		}
		f.nextID++
		r.ID = f.nextID
		f.rows = append(f.rows, r)
		f.inserts++
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) ReplaceCities(ctx context.Context, cities []string, recs []domain.HotelRecord) error {
	n := atomic.AddInt32(&f.replacing, 1)
	defer atomic.AddInt32(&f.replacing, -1)
	atomic.AddInt32(&f.replaces, 1)
	for {
		p := atomic.LoadInt32(&f.replacePeak)
		if n <= p || atomic.CompareAndSwapInt32(&f.replacePeak, p, n) {
			break
		}
	}
	time.Sleep(f.replaceDelay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTx != nil {
		return f.failTx
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		drop := false
		for _, c := range cities {
			if strings.EqualFold(r.City, c) {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	for _, r := range recs {
		f.nextID++
		r.ID = f.nextID
		f.rows = append(f.rows, r)
	}
	return nil
}

func (f *fakeStore) has(name, city string) bool {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, name) && strings.EqualFold(r.City, city) {
			return true
		}
	}
	return false
}

func (f *fakeStore) seed(city string, names ...string) {
	for _, n := range names {
		f.nextID++
		f.rows = append(f.rows, domain.HotelRecord{ID: f.nextID, Name: n, City: city})
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	cands []domain.Candidate
	err   error
}

func (s *fakeSource) Fetch(ctx context.Context, city string) ([]domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.Candidate(nil), s.cands...), nil
}

// fakeImporter writes rows for one city when called.
type fakeImporter struct {
	store *fakeStore
	rows  []domain.HotelRecord
	err   error
	calls int
}

func (i *fakeImporter) Import(ctx context.Context) (bool, error) {
	i.calls++
	if i.err != nil {
		return false, i.err
	}
	return len(i.rows) > 0, i.store.ReplaceCities(ctx, domain.SupportedCities, i.rows)
}

type fakeCache struct {
	store map[string]any
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Candidate:
		*d = v.([]domain.Candidate)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	c.sets++
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type fakeUsers struct {
	byID   map[int64]domain.User
	nextID int64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]domain.User{}} }

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	for _, e := range f.byID {
		if e.Email == u.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now().UTC()
	f.byID[u.ID] = u
	return u, nil
}
func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}
func (f *fakeUsers) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeContent struct {
	posts  map[int64]domain.BlogPost
	events []domain.Event
	from   time.Time
	rests  []domain.Restaurant
	city   string
	nextID int64
}

func newFakeContent() *fakeContent { return &fakeContent{posts: map[int64]domain.BlogPost{}} }

func (f *fakeContent) ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error) { return nil, nil }
func (f *fakeContent) GetBlogPost(ctx context.Context, id int64) (domain.BlogPost, error) {
	p, ok := f.posts[id]
	if !ok {
		return domain.BlogPost{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeContent) CreateBlogPost(ctx context.Context, p domain.BlogPost) (domain.BlogPost, error) {
	f.nextID++
	p.ID = f.nextID
	f.posts[p.ID] = p
	return p, nil
}
func (f *fakeContent) UpdateBlogPost(ctx context.Context, p domain.BlogPost) error {
	if _, ok := f.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.posts[p.ID] = p
	return nil
}
func (f *fakeContent) ListCityGuides(ctx context.Context) ([]domain.CityGuide, error) { return nil, nil }
func (f *fakeContent) GetCityGuide(ctx context.Context, id int64) (domain.CityGuide, error) {
	return domain.CityGuide{}, domain.ErrNotFound
}
func (f *fakeContent) CreateCityGuide(ctx context.Context, g domain.CityGuide) (domain.CityGuide, error) {
	f.nextID++
	g.ID = f.nextID
	return g, nil
}
func (f *fakeContent) ListEventsFrom(ctx context.Context, from time.Time) ([]domain.Event, error) {
	f.from = from
	return f.events, nil
}
func (f *fakeContent) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	return domain.Event{}, domain.ErrNotFound
}
func (f *fakeContent) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	f.nextID++
	e.ID = f.nextID
	f.events = append(f.events, e)
	return e, nil
}
func (f *fakeContent) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	f.city = city
	return f.rests, nil
}
func (f *fakeContent) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	return domain.Restaurant{}, domain.ErrNotFound
}
func (f *fakeContent) CreateRestaurant(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	f.nextID++
	r.ID = f.nextID
	return r, nil
}
func (f *fakeContent) ListTransportation(ctx context.Context, city string) ([]domain.Transportation, error) {
	f.city = city
	return nil, nil
}
func (f *fakeContent) GetTransportation(ctx context.Context, id int64) (domain.Transportation, error) {
	return domain.Transportation{}, domain.ErrNotFound
}
func (f *fakeContent) CreateTransportation(ctx context.Context, t domain.Transportation) (domain.Transportation, error) {
	f.nextID++
	t.ID = f.nextID
	return t, nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
func pfloat(f float64) *float64 { return &f }
