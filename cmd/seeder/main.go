package main

import (
	"Vega_Estate/internal/model"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vega_estate?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	fmt.Println("🧹 正在清理旧数据...")
	// 为了确保每次填充都是干净的，先删除旧表再重建。注意：这将删除所有数据！
	db.Migrator().DropTable(&model.Notification{}, &model.Favorite{}, &model.Like{}, &model.Listing{}, &model.User{})
	fmt.Println("✅ 旧表删除成功!")

	db.AutoMigrate(&model.User{}, &model.Listing{}, &model.Like{}, &model.Favorite{}, &model.Notification{})
	fmt.Println("✅ 数据库迁移成功!")

	rand.Seed(time.Now().UnixNano())

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	userCount := 100
	for i := 0; i < userCount; i++ {
		// 使用faker生成随机用户名，所有用户共用默认密码 "password"
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("❌ 密码加密失败: %v", err)
		}

		user := model.User{
			Username: faker.Username(),
			Password: string(hashedPassword),
		}
		db.Create(&user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", userCount)

	// --- 4. 创建房源 ---
	fmt.Println("🏠 正在创建房源...")
	listingCount := 500
	cities := []string{"Maputo", "Matola", "Beira", "Nampula", "Chimoio", "Quelimane"}
	types := []string{"casa", "apartamento", "terreno", "machamba", "obra"}
	transactionTypes := []string{"venda", "arrendar"}

	for i := 0; i < listingCount; i++ {
		price := uint64(rand.Intn(900000) + 100000)
		listing := model.Listing{
			// 从已创建的100个用户中随机选择一个作为发布者
			OwnerID:         uint64(rand.Intn(userCount) + 1),
			Name:            faker.Sentence(),
			Description:     faker.Paragraph(),
			// 城市统计按地址第一个逗号前的部分分组，所以前缀必须是城市名
			Address:         fmt.Sprintf("%s, %s", cities[rand.Intn(len(cities))], faker.Word()),
			Type:            types[rand.Intn(len(types))],
			TransactionType: transactionTypes[rand.Intn(len(transactionTypes))],
			RegularPrice:    price,
			DiscountPrice:   price - uint64(rand.Intn(50000)),
			Bedroom:         uint64(rand.Intn(5) + 1),
			Bathroom:        uint64(rand.Intn(3) + 1),
			Area:            uint64(rand.Intn(400) + 50),
			Finished:        rand.Intn(2) == 0,
			Parking:         rand.Intn(2) == 0,
			Offer:           rand.Intn(4) == 0,
			ImageURLs:       `["https://test.com/cover.jpg","https://test.com/room.jpg"]`,
		}
		db.Create(&listing)
	}
	fmt.Printf("✅ 成功创建 %d 条房源!\n", listingCount)

	// --- 5. 创建随机点赞和收藏 ---
	fmt.Println("👍 正在创建随机点赞和收藏...")
	likeCount := 1000
	for i := 0; i < likeCount; i++ {
		like := model.Like{
			UserID:    uint64(rand.Intn(userCount) + 1),
			ListingID: uint64(rand.Intn(listingCount) + 1),
		}
		// 使用GORM的 OnConflict 来避免因为重复点赞而报错
		// 这会尝试插入，如果因为唯一键冲突失败，就什么都不做
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).Create(&like)
	}
	favoriteCount := 500
	for i := 0; i < favoriteCount; i++ {
		favorite := model.Favorite{
			UserID:    uint64(rand.Intn(userCount) + 1),
			ListingID: uint64(rand.Intn(listingCount) + 1),
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).Create(&favorite)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个点赞和 %d 个收藏!\n", likeCount, favoriteCount)

	// --- 6. 同步冗余计数器 ---
	// 台账插完之后，把每条房源的热度计数器刷成“点赞数+收藏数”，让种子数据从第一天起就对得上账
	fmt.Println("🔄 正在同步热度计数器...")
	db.Exec(`
		UPDATE listings SET likes =
			(SELECT COUNT(*) FROM likes WHERE likes.listing_id = listings.id) +
			(SELECT COUNT(*) FROM favorites WHERE favorites.listing_id = listings.id)`)
	fmt.Println("✅ 计数器同步完成!")

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}
