package domain

import "time"

type BlogPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content" validate:"required"`
	Category  string    `json:"category" validate:"required,max=100"`
	ImageURL  *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CityGuide struct {
	ID              int64   `json:"id"`
	CityName        string  `json:"city_name" validate:"required,max=100"`
	Description     string  `json:"description" validate:"required"`
	Attractions     string  `json:"attractions" validate:"required"`
	BestTimeToVisit string  `json:"best_time_to_visit" validate:"required,max=200"`
	ImageURL        *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	City        string    `json:"city" validate:"required,max=100"`
	Venue       string    `json:"venue" validate:"required,max=200"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	City        string  `json:"city" validate:"required,max=100"`
	Address     string  `json:"address" validate:"required"`
	CuisineType string  `json:"cuisine_type" validate:"required,max=100"`
	PriceRange  string  `json:"price_range" validate:"required,max=20"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type Transportation struct {
	ID            int64  `json:"id"`
	City          string `json:"city" validate:"required,max=100"`
	TransportType string `json:"transport_type" validate:"required,max=100"`
	Description   string `json:"description" validate:"required"`
	Routes        string `json:"routes" validate:"required"`
	Schedule      string `json:"schedule" validate:"required"`
	PriceInfo     string `json:"price_info" validate:"required"`
}
