package domain

import "github.com/shopspring/decimal"

// Service позиция статического каталога услуг. Цена указывается за 1000 единиц.
// Каталог неизменяемый, динамика цен достигается оверлеем price_overrides.
type Service struct {
	ID       int64
	Platform string
	Category string
	Name     string
	Price    decimal.Decimal
	Min      int64
	Max      int64

	Guarantee bool
	Refill    bool
	DripFeed  bool

	Description string
}

// Catalog статический каталог. ID уникальны и никогда не переиспользуются:
// на них ссылаются заказы и оверрайды цен.
var Catalog = []Service{
	{
		ID: 101, Platform: "instagram", Category: "followers", Name: "Instagram Followers — HQ",
		Price: decimal.NewFromFloat(4.50), Min: 100, Max: 50000,
		Guarantee: true, Refill: true,
		Description: "High quality profiles, gradual delivery.",
	},
	{
		ID: 102, Platform: "instagram", Category: "likes", Name: "Instagram Likes",
		Price: decimal.NewFromFloat(1.20), Min: 50, Max: 20000,
		DripFeed:    true,
		Description: "Likes on a single post.",
	},
	{
		ID: 103, Platform: "instagram", Category: "views", Name: "Instagram Video Views",
		Price: decimal.NewFromFloat(0.40), Min: 500, Max: 1000000,
		Description: "Views for reels and video posts.",
	},
	{
		ID: 201, Platform: "tiktok", Category: "followers", Name: "TikTok Followers",
		Price: decimal.NewFromFloat(5.00), Min: 100, Max: 100000,
		Guarantee:   true,
		Description: "Worldwide followers, no password required.",
	},
	{
		ID: 202, Platform: "tiktok", Category: "views", Name: "TikTok Video Views",
		Price: decimal.NewFromFloat(0.15), Min: 1000, Max: 5000000,
		Description: "Instant start video views.",
	},
	{
		ID: 203, Platform: "tiktok", Category: "likes", Name: "TikTok Likes",
		Price: decimal.NewFromFloat(1.80), Min: 100, Max: 50000,
		Refill:      true,
		Description: "Likes on a single video.",
	},
	{
		ID: 301, Platform: "youtube", Category: "views", Name: "YouTube Views",
		Price: decimal.NewFromFloat(2.70), Min: 1000, Max: 1000000,
		Guarantee: true, DripFeed: true,
		Description: "Retention oriented views.",
	},
	{
		ID: 302, Platform: "youtube", Category: "subscribers", Name: "YouTube Subscribers",
		Price: decimal.NewFromFloat(18.00), Min: 50, Max: 10000,
		Guarantee: true, Refill: true,
		Description: "Slow and steady channel subscribers.",
	},
	{
		ID: 303, Platform: "youtube", Category: "likes", Name: "YouTube Likes",
		Price: decimal.NewFromFloat(3.40), Min: 50, Max: 25000,
		Description: "Likes on a single video.",
	},
	{
		ID: 401, Platform: "twitter", Category: "followers", Name: "X/Twitter Followers",
		Price: decimal.NewFromFloat(6.50), Min: 100, Max: 50000,
		Description: "Mixed quality followers.",
	},
	{
		ID: 402, Platform: "twitter", Category: "likes", Name: "X/Twitter Likes",
		Price: decimal.NewFromFloat(2.10), Min: 50, Max: 10000,
		Description: "Likes on a single tweet.",
	},
	{
		ID: 501, Platform: "telegram", Category: "members", Name: "Telegram Channel Members",
		Price: decimal.NewFromFloat(3.00), Min: 100, Max: 100000,
		Refill:      true,
		Description: "Members for public channels and groups.",
	},
	{
		ID: 502, Platform: "telegram", Category: "views", Name: "Telegram Post Views",
		Price: decimal.NewFromFloat(0.25), Min: 500, Max: 500000,
		Description: "Views for the last post.",
	},
	{
		ID: 601, Platform: "facebook", Category: "likes", Name: "Facebook Page Likes",
		Price: decimal.NewFromFloat(5.00), Min: 100, Max: 50000,
		Guarantee:   true,
		Description: "Page likes and follows.",
	},
	{
		ID: 602, Platform: "facebook", Category: "views", Name: "Facebook Video Views",
		Price: decimal.NewFromFloat(0.90), Min: 500, Max: 1000000,
		Description: "Video views, monetizable.",
	},
}

// ServiceByID ищет услугу в статическом каталоге. Возвращает ErrServiceNotFound
// для неизвестного id.
func ServiceByID(id int64) (*Service, error) {
	for i := range Catalog {
		if Catalog[i].ID == id {
			s := Catalog[i]
			return &s, nil
		}
	}
	return nil, ErrServiceNotFound
}
