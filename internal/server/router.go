package server

import (
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/techshop/internal/auth"
	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/datamodels/order"
	"github.com/example/techshop/internal/datamodels/product"
	"github.com/example/techshop/internal/datamodels/user"
	"github.com/example/techshop/internal/infra/mq"
	"github.com/example/techshop/internal/middleware"
	"github.com/example/techshop/internal/repository/mysql"
	"github.com/example/techshop/internal/service"
)

// Deps 路由依赖，全部由 main 显式注入，不使用全局状态
type Deps struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Redis radix.Client // 可为 nil，令牌缓存退化为直接验签
	MQ    *amqp.Connection
}

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, d Deps) {
	production := d.Cfg.App.IsProduction()

	// 仓储与服务
	userRepo := mysql.NewUserRepository(d.DB)
	categoryRepo := mysql.NewCategoryRepository(d.DB)
	productRepo := mysql.NewProductRepository(d.DB)
	orderRepo := mysql.NewOrderRepository(d.DB)

	userSvc := service.NewUserService(userRepo, &d.Cfg.JWT)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo)

	var events service.EventPublisher
	if d.MQ != nil {
		events = mq.NewPublisher(d.MQ)
	}
	orderSvc := service.NewOrderService(orderRepo, events)

	ring := auth.NewRing(d.Cfg.Auth.Nodes, d.Cfg.Auth.HashReplicas)
	tokenCache := auth.NewTokenCache(d.Redis, ring,
		time.Duration(d.Cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	// 登录校验：令牌缓存命中则跳过验签
	authRequired := func(ctx iris.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			ctx.StopWithJSON(iris.StatusUnauthorized, Response{OK: false, Message: "no token provided"})
			return
		}

		claims, hit, err := tokenCache.Get(ctx.Request().Context(), token)
		if err != nil {
			zap.L().Debug("token cache get failed", zap.Error(err))
		}
		if !hit {
			claims, err = auth.ParseToken(&d.Cfg.JWT, token)
			if err != nil {
				ctx.StopWithJSON(iris.StatusUnauthorized, Response{OK: false, Message: "invalid or expired session"})
				return
			}
			if err := tokenCache.Set(ctx.Request().Context(), token, claims); err != nil {
				zap.L().Debug("token cache set failed", zap.Error(err))
			}
		}

		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("email", claims.Email)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}

	adminRequired := func(ctx iris.Context) {
		if ctx.Values().GetStringDefault("role", "") != user.RoleAdmin {
			ctx.StopWithJSON(iris.StatusForbidden, Response{OK: false, Message: "admin role required"})
			return
		}
		ctx.Next()
	}

	app.Use(middleware.AccessLog())

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		respondOK(ctx, iris.StatusOK, "ok", nil)
	})

	// ---------------- 认证 ----------------

	api.Post("/auth/register", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"full_name"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		u, token, err := userSvc.Register(ctx.Request().Context(), req.Email, req.Password, req.FullName)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusCreated, "registration successful", iris.Map{"user": u, "token": token})
	})

	api.Post("/auth/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		u, token, err := userSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusOK, "login successful", iris.Map{"user": u, "token": token})
	})

	api.Get("/auth/me", authRequired, func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		u, err := userSvc.GetProfile(ctx.Request().Context(), userID)
		if err != nil {
			respondErrMsg(ctx, production, err, "user not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", u)
	})

	// ---------------- 商品目录 ----------------

	api.Get("/products", func(ctx iris.Context) {
		// 显式传 limit=0/page=0 时 URLParamIntDefault 原样返回，必须先归一
		f := product.ListFilter{
			CategorySlug: ctx.URLParam("category"),
			Search:       ctx.URLParam("search"),
			Sort:         ctx.URLParam("sort"),
			Page:         ctx.URLParamIntDefault("page", 1),
			Limit:        ctx.URLParamIntDefault("limit", 10),
		}.Normalize()
		list, total, err := productSvc.List(ctx.Request().Context(), f)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		totalPages := (total + int64(f.Limit) - 1) / int64(f.Limit)
		respondOK(ctx, iris.StatusOK, "ok", iris.Map{
			"products": list,
			"pagination": iris.Map{
				"current_page":   f.Page,
				"total_pages":    totalPages,
				"total_products": total,
				"has_more":       int64(f.Page) < totalPages,
			},
		})
	})

	api.Get("/products/{slug}", func(ctx iris.Context) {
		p, err := productSvc.GetBySlug(ctx.Request().Context(), ctx.Params().Get("slug"))
		if err != nil {
			respondErrMsg(ctx, production, err, "product not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", p)
	})

	api.Post("/products", authRequired, adminRequired, func(ctx iris.Context) {
		var in service.ProductInput
		if err := ctx.ReadJSON(&in); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		p, err := productSvc.Create(ctx.Request().Context(), in)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusCreated, "product created", p)
	})

	api.Put("/products/{slug}", authRequired, adminRequired, func(ctx iris.Context) {
		var in service.ProductUpdate
		if err := ctx.ReadJSON(&in); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		p, err := productSvc.Update(ctx.Request().Context(), ctx.Params().Get("slug"), in)
		if err != nil {
			respondErrMsg(ctx, production, err, "product not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "product updated", p)
	})

	api.Delete("/products/{slug}", authRequired, adminRequired, func(ctx iris.Context) {
		if err := productSvc.Delete(ctx.Request().Context(), ctx.Params().Get("slug")); err != nil {
			respondErrMsg(ctx, production, err, "product not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "product deleted", nil)
	})

	// ---------------- 分类 ----------------

	api.Get("/categories", func(ctx iris.Context) {
		list, err := categorySvc.List(ctx.Request().Context())
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", list)
	})

	api.Get("/categories/{slug}", func(ctx iris.Context) {
		c, err := categorySvc.GetBySlug(ctx.Request().Context(), ctx.Params().Get("slug"))
		if err != nil {
			respondErrMsg(ctx, production, err, "category not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", c)
	})

	api.Post("/categories", authRequired, adminRequired, func(ctx iris.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		c, err := categorySvc.Create(ctx.Request().Context(), req.Name)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusCreated, "category created", c)
	})

	api.Put("/categories/{id:uint64}", authRequired, adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		var req struct {
			Name string `json:"name"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		c, err := categorySvc.Update(ctx.Request().Context(), int64(id), req.Name)
		if err != nil {
			respondErrMsg(ctx, production, err, "category not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "category updated", c)
	})

	api.Delete("/categories/{id:uint64}", authRequired, adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		if err := categorySvc.Delete(ctx.Request().Context(), int64(id)); err != nil {
			respondErrMsg(ctx, production, err, "category not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "category deleted", nil)
	})

	// ---------------- 订单 ----------------

	orderBucket := middleware.NewTokenBucket(20, 10)

	api.Post("/orders", authRequired, middleware.RateLimit(orderBucket), func(ctx iris.Context) {
		var req struct {
			Items []service.LineRequest `json:"items"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		o, err := orderSvc.Create(ctx.Request().Context(), userID, req.Items)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusCreated, "order created", o)
	})

	api.Get("/orders", authRequired, func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		list, err := orderSvc.List(ctx.Request().Context(), userID)
		if err != nil {
			respondErr(ctx, production, err)
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", list)
	})

	api.Get("/orders/{id:uint64}", authRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		userID := ctx.Values().GetInt64Default("user_id", 0)
		o, err := orderSvc.Get(ctx.Request().Context(), userID, int64(id))
		if err != nil {
			respondErrMsg(ctx, production, err, "order not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "ok", o)
	})

	api.Patch("/orders/{id:uint64}/status", authRequired, adminRequired, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, Response{OK: false, Message: err.Error()})
			return
		}
		o, err := orderSvc.UpdateStatus(ctx.Request().Context(), int64(id), order.Status(req.Status))
		if err != nil {
			respondErrMsg(ctx, production, err, "order not found")
			return
		}
		respondOK(ctx, iris.StatusOK, "order updated", o)
	})

	// ---------------- 监控 ----------------

	api.Get("/stats", authRequired, adminRequired, func(ctx iris.Context) {
		respondOK(ctx, iris.StatusOK, "ok", service.GetMonitor().GetStats())
	})
}
