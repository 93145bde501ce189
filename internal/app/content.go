package app

import (
	"context"
	"strings"
	"time"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/validation"
)

// Content serves the travel pages around the hotel search. Reads are public; creating needs an
// admin and a blog post may only be edited by its author.
type Content struct {
	store domain.ContentStore
	users domain.UserStore
	v     *validation.Validator
	now   func() time.Time
}

func NewContent(store domain.ContentStore, users domain.UserStore, v *validation.Validator) *Content {
	return &Content{store: store, users: users, v: v, now: time.Now}
}

// WithClock replaces the clock used to decide which events are upcoming.
func (c *Content) WithClock(now func() time.Time) *Content {
	c.now = now
	return c
}

/********** blog **********/

func (c *Content) ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error) {
	return c.store.ListBlogPosts(ctx)
}

func (c *Content) GetBlogPost(ctx context.Context, id int64) (domain.BlogPost, error) {
	return c.store.GetBlogPost(ctx, id)
}

func (c *Content) CreateBlogPost(ctx context.Context, p domain.Principal, post domain.BlogPost) (domain.BlogPost, error) {
	if err := requireAdmin(ctx, c.users, p); err != nil {
		return domain.BlogPost{}, err
	}
	if err := c.v.Validate(post); err != nil {
		return domain.BlogPost{}, err
	}
	post.ID = 0
	post.AuthorID = p.UserID
	post.CreatedAt = c.now().UTC()
	return c.store.CreateBlogPost(ctx, post)
}

func (c *Content) UpdateBlogPost(ctx context.Context, p domain.Principal, id int64, post domain.BlogPost) (domain.BlogPost, error) {
	cur, err := c.store.GetBlogPost(ctx, id)
	if err != nil {
		return domain.BlogPost{}, err
	}
	if cur.AuthorID != p.UserID {
		return domain.BlogPost{}, domain.ErrForbidden
	}
	if err := c.v.Validate(post); err != nil {
		return domain.BlogPost{}, err
	}
	cur.Title, cur.Content, cur.Category, cur.ImageURL = post.Title, post.Content, post.Category, post.ImageURL
	if err := c.store.UpdateBlogPost(ctx, cur); err != nil {
		return domain.BlogPost{}, err
	}
	return cur, nil
}

/********** city guides **********/

func (c *Content) ListCityGuides(ctx context.Context) ([]domain.CityGuide, error) {
	return c.store.ListCityGuides(ctx)
}

func (c *Content) GetCityGuide(ctx context.Context, id int64) (domain.CityGuide, error) {
	return c.store.GetCityGuide(ctx, id)
}

func (c *Content) CreateCityGuide(ctx context.Context, p domain.Principal, g domain.CityGuide) (domain.CityGuide, error) {
	if err := requireAdmin(ctx, c.users, p); err != nil {
		return domain.CityGuide{}, err
	}
	if err := c.v.Validate(g); err != nil {
		return domain.CityGuide{}, err
	}
	g.ID = 0
	return c.store.CreateCityGuide(ctx, g)
}

/********** events **********/

// ListUpcomingEvents returns events that have not started yet, soonest first.
func (c *Content) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	return c.store.ListEventsFrom(ctx, c.now().UTC())
}

func (c *Content) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	return c.store.GetEvent(ctx, id)
}

func (c *Content) CreateEvent(ctx context.Context, p domain.Principal, e domain.Event) (domain.Event, error) {
	if err := requireAdmin(ctx, c.users, p); err != nil {
		return domain.Event{}, err
	}
	if err := c.v.Validate(e); err != nil {
		return domain.Event{}, err
	}
	e.ID = 0
	e.StartDate, e.EndDate = e.StartDate.UTC(), e.EndDate.UTC()
	return c.store.CreateEvent(ctx, e)
}

/********** restaurants **********/

// ListRestaurants filters by exact city when city is non-empty.
func (c *Content) ListRestaurants(ctx context.Context, city string) ([]domain.Restaurant, error) {
	return c.store.ListRestaurants(ctx, strings.TrimSpace(city))
}

func (c *Content) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	return c.store.GetRestaurant(ctx, id)
}

func (c *Content) CreateRestaurant(ctx context.Context, p domain.Principal, r domain.Restaurant) (domain.Restaurant, error) {
	if err := requireAdmin(ctx, c.users, p); err != nil {
		return domain.Restaurant{}, err
	}
	if err := c.v.Validate(r); err != nil {
		return domain.Restaurant{}, err
	}
	r.ID = 0
	return c.store.CreateRestaurant(ctx, r)
}

/********** transportation **********/

func (c *Content) ListTransportation(ctx context.Context, city string) ([]domain.Transportation, error) {
	return c.store.ListTransportation(ctx, strings.TrimSpace(city))
}

func (c *Content) GetTransportation(ctx context.Context, id int64) (domain.Transportation, error) {
	return c.store.GetTransportation(ctx, id)
}

func (c *Content) CreateTransportation(ctx context.Context, p domain.Principal, t domain.Transportation) (domain.Transportation, error) {
	if err := requireAdmin(ctx, c.users, p); err != nil {
		return domain.Transportation{}, err
	}
	if err := c.v.Validate(t); err != nil {
		return domain.Transportation{}, err
	}
	t.ID = 0
	return c.store.CreateTransportation(ctx, t)
}
