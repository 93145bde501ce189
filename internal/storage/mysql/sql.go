package mysql

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const hotelColumns = `id, name, city, price, rating, address, description`

// City match is a case-insensitive substring match; the pattern is escaped by the caller.
const searchHotelsByCitySQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE LOWER(city) LIKE ? ESCAPE '\\'
ORDER BY id
`

// Name/city equality follows the column collation (case-insensitive).
const hotelExistsSQL = `
SELECT EXISTS(SELECT 1 FROM hotels WHERE name = ? AND city = ?)
`

const insertHotelSQL = `
INSERT INTO hotels (name, city, price, rating, address, description)
VALUES (?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const userColumns = `id, name, email, password_hash, is_admin, created_at`

const insertUserSQL = `
INSERT INTO users (name, email, password_hash, is_admin)
VALUES (?, ?, ?, ?)
`

const getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
const getUserSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

// -----------------------------------------------------------------------------
// CONTENT
// -----------------------------------------------------------------------------

const blogColumns = `id, title, content, category, image_url, author_id, created_at`

const listBlogPostsSQL = `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY created_at DESC, id DESC`
const getBlogPostSQL = `SELECT ` + blogColumns + ` FROM blog_posts WHERE id = ?`

const insertBlogPostSQL = `
INSERT INTO blog_posts (title, content, category, image_url, author_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateBlogPostSQL = `
UPDATE blog_posts SET title = ?, content = ?, category = ?, image_url = ?
WHERE id = ?
`

const guideColumns = `id, city_name, description, attractions, best_time_to_visit, image_url`

const listCityGuidesSQL = `SELECT ` + guideColumns + ` FROM city_guides ORDER BY city_name, id`
const getCityGuideSQL = `SELECT ` + guideColumns + ` FROM city_guides WHERE id = ?`

const insertCityGuideSQL = `
INSERT INTO city_guides (city_name, description, attractions, best_time_to_visit, image_url)
VALUES (?, ?, ?, ?, ?)
`

const eventColumns = `id, title, description, city, venue, start_date, end_date, image_url`

const listEventsFromSQL = `SELECT ` + eventColumns + ` FROM events WHERE start_date >= ? ORDER BY start_date, id`
const getEventSQL = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

const insertEventSQL = `
INSERT INTO events (title, description, city, venue, start_date, end_date, image_url)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const restaurantColumns = `id, name, description, city, address, cuisine_type, price_range, rating, image_url`

const listRestaurantsSQL = `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY id`
const listRestaurantsByCitySQL = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE city = ? ORDER BY id`
const getRestaurantSQL = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?`

const insertRestaurantSQL = `
INSERT INTO restaurants (name, description, city, address, cuisine_type, price_range, rating, image_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const transportColumns = `id, city, transport_type, description, routes, schedule, price_info`

const listTransportationSQL = `SELECT ` + transportColumns + ` FROM transportation ORDER BY id`
const listTransportationByCitySQL = `SELECT ` + transportColumns + ` FROM transportation WHERE city = ? ORDER BY id`
const getTransportationSQL = `SELECT ` + transportColumns + ` FROM transportation WHERE id = ?`

const insertTransportationSQL = `
INSERT INTO transportation (city, transport_type, description, routes, schedule, price_info)
VALUES (?, ?, ?, ?, ?, ?)
`
