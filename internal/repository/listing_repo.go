package repository

import (
	"Vega_Estate/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchParams 是搜索接口的全部筛选条件，零值代表“不筛选”
type SearchParams struct {
	SearchTerm      string
	Type            string // all 或具体类型
	TransactionType string // all / venda / arrendar
	Offer           *bool  // 指针零值nil表示“不管有没有优惠都要”
	Finished        *bool
	Parking         *bool
	Sort            string // 排序列，白名单校验在这里做，不能让调用方拼SQL
	Order           string // asc / desc
	Limit           int
	Offset          int
}

// TypeStat 按房源类型分组的统计结果
type TypeStat struct {
	Type     string  `json:"type"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

// CityStat 按城市（地址逗号前缀）分组的统计结果
type CityStat struct {
	City     string  `json:"city"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
	ForRent  int64   `json:"for_rent"`
	ForSale  int64   `json:"for_sale"`
}

type ListingRepository interface {
	Create(listing *model.Listing) error
	Save(listing *model.Listing) error
	DeleteByID(listingID uint64) error
	FindByID(listingID uint64) (*model.Listing, error)
	// 不走缓存，直接查库。权限校验和计数器读回都要用最新值
	FindByIDFromDB(listingID uint64) (*model.Listing, error)
	// 带锁的查找，只在事务里使用
	FindByIDForUpdate(listingID uint64) (*model.Listing, error)
	Search(params SearchParams) ([]model.Listing, error)

	IncrementLikes(listingID uint64) error
	DecrementLikes(listingID uint64) error
	// 返回影响行数，0行说明房源不存在，调用方据此返回404
	IncrementViews(listingID uint64) (int64, error)
	IncrementShares(listingID uint64) (int64, error)

	CountAll() (int64, error)
	StatsByType() ([]TypeStat, error)
	StatsByCity(limit int) ([]CityStat, error)

	GetListingCache(listingID uint64) (*model.Listing, error)
	SetListingCache(listing *model.Listing) error
	DeleteListingCache(listingID uint64) error

	WithTx(tx *gorm.DB) ListingRepository
}

type listingRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewListingRepository(db *gorm.DB, rdb *redis.Client) ListingRepository {
	return &listingRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个新的、使用事务的 listingRepository 实例。事务中不操作Redis
func (r *listingRepository) WithTx(tx *gorm.DB) ListingRepository {
	return &listingRepository{
		db: tx,
	}
}

func (r *listingRepository) Create(listing *model.Listing) error {
	return r.db.Create(listing).Error
}

// Save 全量更新，更新完顺手把缓存删掉，避免读到旧数据
func (r *listingRepository) Save(listing *model.Listing) error {
	if err := r.db.Save(listing).Error; err != nil {
		return err
	}
	_ = r.DeleteListingCache(listing.ID)
	return nil
}

func (r *listingRepository) DeleteByID(listingID uint64) error {
	if err := r.db.Delete(&model.Listing{}, listingID).Error; err != nil {
		return err
	}
	_ = r.DeleteListingCache(listingID)
	return nil
}

// 利用listingID找房源：1、先从缓存读 2、缓存未命中查库并Preload发布者 3、写回缓存
func (r *listingRepository) FindByID(listingID uint64) (*model.Listing, error) {
	listing, err := r.GetListingCache(listingID)
	if err == nil && listing != nil {
		// 缓存命中，直接返回
		return listing, nil
	}

	var dbListing model.Listing
	err = r.db.Preload("Owner").First(&dbListing, listingID).Error
	if err != nil {
		return nil, err // 数据库也没找到，就真的没有了
	}

	// 读到数据后，写回缓存，方便下次读取
	_ = r.SetListingCache(&dbListing)

	return &dbListing, nil
}

func (r *listingRepository) FindByIDFromDB(listingID uint64) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.Preload("Owner").First(&listing, listingID).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDForUpdate(listingID uint64) (*model.Listing, error) {
	var listing model.Listing
	// SELECT * FROM `listings` WHERE `id` = ? LIMIT 1 FOR UPDATE;
	// clause.Locking是GORM预定义好的锁条款，Strength: "UPDATE"是排他锁
	// FOR UPDATE锁的生命周期和事务的生命周期是完全绑定的，会持续到包裹它的事务结束
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&listing, listingID).Error
	return &listing, err
}

// 搜索房源。筛选条件逐个往query上叠，最后统一排序分页
func (r *listingRepository) Search(params SearchParams) ([]model.Listing, error) {
	query := r.db.Model(&model.Listing{}).Preload("Owner")

	if params.SearchTerm != "" {
		query = query.Where("name LIKE ?", "%"+params.SearchTerm+"%")
	}
	if params.Type != "" && params.Type != "all" {
		query = query.Where("type = ?", params.Type)
	}
	if params.TransactionType != "" && params.TransactionType != "all" {
		query = query.Where("transaction_type = ?", params.TransactionType)
	}
	if params.Offer != nil {
		query = query.Where("offer = ?", *params.Offer)
	}
	if params.Finished != nil {
		query = query.Where("finished = ?", *params.Finished)
	}
	if params.Parking != nil {
		query = query.Where("parking = ?", *params.Parking)
	}

	// 排序列白名单，防止调用方把任意字符串拼进ORDER BY
	sortColumn := "created_at"
	switch params.Sort {
	case "regular_price", "created_at", "likes", "views":
		sortColumn = params.Sort
	}
	order := "desc"
	if params.Order == "asc" {
		order = "asc"
	}

	var listings []model.Listing
	err := query.
		Order(sortColumn + " " + order).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&listings).Error
	return listings, err
}

func (r *listingRepository) IncrementLikes(listingID uint64) error {
	// 使用GORM的表达式来执行原子更新：UPDATE `listings` SET `likes` = `likes` + 1 WHERE id = ?
	return r.db.Model(&model.Listing{}).Where("id = ?", listingID).UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error
}

func (r *listingRepository) DecrementLikes(listingID uint64) error {
	// UPDATE `listings` SET `likes` = `likes` - 1 WHERE id = ? AND likes > 0
	return r.db.Model(&model.Listing{}).Where("id = ? AND likes > 0", listingID).UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error
}

// 浏览数+1。没有台账也不去重，就是个单纯的原子自增
func (r *listingRepository) IncrementViews(listingID uint64) (int64, error) {
	result := r.db.Model(&model.Listing{}).Where("id = ?", listingID).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	// 自增之后缓存里的计数就旧了，直接删掉
	_ = r.DeleteListingCache(listingID)
	return result.RowsAffected, nil
}

func (r *listingRepository) IncrementShares(listingID uint64) (int64, error) {
	result := r.db.Model(&model.Listing{}).Where("id = ?", listingID).UpdateColumn("shares", gorm.Expr("shares + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	_ = r.DeleteListingCache(listingID)
	return result.RowsAffected, nil
}

func (r *listingRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Listing{}).Count(&count).Error
	return count, err
}

// 按类型分组统计数量和均价
func (r *listingRepository) StatsByType() ([]TypeStat, error) {
	var stats []TypeStat
	err := r.db.Model(&model.Listing{}).
		Select("type, COUNT(*) AS count, ROUND(AVG(regular_price), 2) AS avg_price").
		Group("type").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// 按城市分组统计。城市没有单独的列，约定取address第一个逗号之前的部分
// SUBSTRING_INDEX是MySQL方言，换数据库这里要跟着改
func (r *listingRepository) StatsByCity(limit int) ([]CityStat, error) {
	var stats []CityStat
	err := r.db.Raw(`
		SELECT LOWER(TRIM(SUBSTRING_INDEX(address, ',', 1))) AS city,
		       COUNT(*)                                      AS count,
		       ROUND(AVG(regular_price), 2)                  AS avg_price,
		       SUM(transaction_type = 'arrendar')            AS for_rent,
		       SUM(transaction_type = 'venda')               AS for_sale
		FROM listings
		WHERE deleted_at IS NULL
		GROUP BY city
		ORDER BY count DESC
		LIMIT ?`, limit).Scan(&stats).Error
	return stats, err
}

// 返回存储单条房源信息的字符串Key
func (r *listingRepository) keyListingInfo(listingID uint64) string {
	return fmt.Sprintf("listing:info:%d", listingID)
}

// 从Redis缓存中获取单条房源：1、利用listingID组装key 2、拿key去rdb中找JSON 3、json.Unmarshal反序列化
func (r *listingRepository) GetListingCache(listingID uint64) (*model.Listing, error) {
	if r.rdb == nil {
		return nil, nil // 事务副本里没有Redis，直接当缓存未命中
	}
	key := r.keyListingInfo(listingID)
	listingJSON, err := r.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil // 缓存不存在，但是Redis正常工作
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var listing model.Listing
	if err := json.Unmarshal([]byte(listingJSON), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// 将单条房源存入Redis缓存，设置过期时间，再加上随机性防止缓存雪崩
func (r *listingRepository) SetListingCache(listing *model.Listing) error {
	if r.rdb == nil {
		return nil
	}
	key := r.keyListingInfo(listing.ID)
	listingJSON, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), key, listingJSON, expiration).Err()
}

func (r *listingRepository) DeleteListingCache(listingID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyListingInfo(listingID)).Err()
}
