package product

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads several products at once, keyed by ID.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Inventory").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// GetProductDetail fetches a product with its inventory by ID or slug.
func (r *Repository) GetProductDetail(ctx context.Context, idOrSlug string) (*models.Product, error) {
	qb := r.db.WithContext(ctx).Preload("Inventory")

	var product models.Product
	if id, err := uuid.Parse(idOrSlug); err == nil {
		if err := qb.First(&product, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &product, nil
	}
	if err := qb.First(&product, "slug = ?", idOrSlug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetInventoryByProductID returns the inventory row for the provided product.
func (r *Repository) GetInventoryByProductID(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertInventory creates or updates the inventory row for a product.
func (r *Repository) UpsertInventory(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

func (r *Repository) ListProductSummaries(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	inStockClause := "EXISTS (SELECT 1 FROM inventory_items i WHERE i.product_id = p.id AND i.available_qty > 0)"

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.sku",
			"p.slug",
			"p.title",
			"p.subtitle",
			"p.brand",
			"p.category",
			"p.image_urls",
			"p.price_cents",
			"p.compare_at_price_cents",
			"p.currency",
			"p.is_featured",
			"p.rating_avg",
			"p.rating_count",
			"p.created_at",
			"p.updated_at",
			inStockClause + " AS in_stock",
		}, ", ")).
		Where("p.is_active = ?", true)

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("p.category = ?", *filter.Category)
	}
	if filter.Brand != nil {
		qb = qb.Where("p.brand = ?", *filter.Brand)
	}
	if filter.PriceMinCents != nil {
		qb = qb.Where("p.price_cents >= ?", *filter.PriceMinCents)
	}
	if filter.PriceMaxCents != nil {
		qb = qb.Where("p.price_cents <= ?", *filter.PriceMaxCents)
	}
	if filter.Featured != nil {
		qb = qb.Where("p.is_featured = ?", *filter.Featured)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			qb = qb.Where(inStockClause)
		} else {
			qb = qb.Where("NOT " + inStockClause)
		}
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.title) LIKE ? OR LOWER(p.sku) LIKE ? OR LOWER(COALESCE(p.brand, '')) LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type productSummaryRecord struct {
	ID                  uuid.UUID
	SKU                 string
	Slug                string
	Title               string
	Subtitle            sql.NullString
	Brand               sql.NullString
	Category            string
	ImageURLs           pq.StringArray `gorm:"type:text[]"`
	PriceCents          int64
	CompareAtPriceCents sql.NullInt64
	Currency            string
	IsFeatured          bool
	RatingAvg           float64
	RatingCount         int
	InStock             bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (r productSummaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:                  r.ID,
		SKU:                 r.SKU,
		Slug:                r.Slug,
		Title:               r.Title,
		Subtitle:            nullStringPtr(r.Subtitle),
		Brand:               nullStringPtr(r.Brand),
		Category:            r.Category,
		ImageURLs:           append([]string{}, r.ImageURLs...),
		PriceCents:          r.PriceCents,
		CompareAtPriceCents: nullInt64Ptr(r.CompareAtPriceCents),
		Currency:            r.Currency,
		IsFeatured:          r.IsFeatured,
		RatingAvg:           r.RatingAvg,
		RatingCount:         r.RatingCount,
		InStock:             r.InStock,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}
