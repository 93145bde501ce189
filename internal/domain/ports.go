package domain

import (
	"context"
	"time"
)

type HotelStore interface {
	// Read paths
	SearchByCity(ctx context.Context, city string) ([]HotelRecord, error)
	CountByCities(ctx context.Context, cities []string) (int, error)

	// Write paths
	// InsertMissing stores every record whose (name, city) is not yet present, in one transaction,
	// and returns the records it inserted in input order.
	InsertMissing(ctx context.Context, recs []HotelRecord) ([]HotelRecord, error)
	// ReplaceCities deletes all records of cities and inserts recs, atomically.
	ReplaceCities(ctx context.Context, cities []string, recs []HotelRecord) error
}

type ListingSource interface {
	Fetch(ctx context.Context, city string) ([]Candidate, error)
}

type ReferenceImporter interface {
	Import(ctx context.Context) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
}

type ContentStore interface {
	ListBlogPosts(ctx context.Context) ([]BlogPost, error)
	GetBlogPost(ctx context.Context, id int64) (BlogPost, error)
	CreateBlogPost(ctx context.Context, p BlogPost) (BlogPost, error)
	UpdateBlogPost(ctx context.Context, p BlogPost) error

	ListCityGuides(ctx context.Context) ([]CityGuide, error)
	GetCityGuide(ctx context.Context, id int64) (CityGuide, error)
	CreateCityGuide(ctx context.Context, g CityGuide) (CityGuide, error)

	ListEventsFrom(ctx context.Context, from time.Time) ([]Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	CreateEvent(ctx context.Context, e Event) (Event, error)

	ListRestaurants(ctx context.Context, city string) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (Restaurant, error)
	CreateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error)

	ListTransportation(ctx context.Context, city string) ([]Transportation, error)
	GetTransportation(ctx context.Context, id int64) (Transportation, error)
	CreateTransportation(ctx context.Context, t Transportation) (Transportation, error)
}
