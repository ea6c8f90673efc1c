package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/datamodels/category"
	"github.com/example/techshop/internal/datamodels/product"
	"github.com/example/techshop/internal/datamodels/user"
	"github.com/example/techshop/internal/repository/mysql"
)

// 直接写库的种子工具：管理员账号、基础分类和一批演示商品
func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空使用默认配置")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := mysql.Init(&cfg.MySQL)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}

	ctx := context.Background()
	userRepo := mysql.NewUserRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	productRepo := mysql.NewProductRepository(db)

	// 1. 管理员账号
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &user.User{
		Email:    "admin@techshop.local",
		Password: string(hashed),
		FullName: "Administrator",
		Role:     user.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		fmt.Printf("跳过管理员创建: %v\n", err)
	} else {
		fmt.Printf("管理员已创建: %s / admin123\n", admin.Email)
	}

	// 2. 分类
	categories := []*category.Category{
		{Name: "Laptops", Slug: "laptops"},
		{Name: "Phones", Slug: "phones"},
		{Name: "Accessories", Slug: "accessories"},
	}
	for _, c := range categories {
		if err := categoryRepo.Create(ctx, c); err != nil {
			fmt.Printf("跳过分类 %s: %v\n", c.Name, err)
		} else {
			fmt.Printf("分类已创建: %s (id=%d)\n", c.Name, c.ID)
		}
	}

	// 3. 商品
	price := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	products := []*product.Product{
		{Name: "ThinkBook 14", Slug: "thinkbook-14", Brand: "Lenovo", Price: price("899.00"), Stock: 25, CategoryID: &categories[0].ID},
		{Name: "MacBook Air M3", Slug: "macbook-air-m3", Brand: "Apple", Price: price("1199.00"), Stock: 12, CategoryID: &categories[0].ID},
		{Name: "Pixel 9", Slug: "pixel-9", Brand: "Google", Price: price("799.00"), Stock: 40, CategoryID: &categories[1].ID},
		{Name: "Galaxy S25", Slug: "galaxy-s25", Brand: "Samsung", Price: price("849.00"), Stock: 30, CategoryID: &categories[1].ID},
		{Name: "USB-C Hub", Slug: "usb-c-hub", Brand: "Anker", Price: price("39.90"), Stock: 200, CategoryID: &categories[2].ID},
		{Name: "Wireless Mouse", Slug: "wireless-mouse", Brand: "Logitech", Price: price("24.50"), Stock: 150, CategoryID: &categories[2].ID},
	}
	for _, p := range products {
		if err := productRepo.Create(ctx, p); err != nil {
			fmt.Printf("跳过商品 %s: %v\n", p.Name, err)
		} else {
			fmt.Printf("商品已创建: %s (id=%d, 库存=%d)\n", p.Name, p.ID, p.Stock)
		}
	}

	fmt.Println("种子数据写入完成")
}
