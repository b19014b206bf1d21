package server

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"

	"github.com/Dashazem/back-end-capstone-project/internal/auth"
	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/mq"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/redis"
	"github.com/Dashazem/back-end-capstone-project/internal/repository/mysql"
	"github.com/Dashazem/back-end-capstone-project/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由
// 端口通常是 8081，与前台服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 仓储与服务
	productRepo := mysql.NewProductRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	adminRepo := mysql.NewAdministratorRepository(db)
	addressRepo := mysql.NewAddressRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	catalogSvc := service.NewCatalogService(productRepo, redisClient)
	identitySvc := service.NewIdentityService(db, customerRepo, adminRepo, addressRepo, orderRepo, &cfg.JWT)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, addressRepo, customerRepo, paymentRepo, mqConn)

	api := app.Party("/api")

	// 管理员注册和登录不要求已有会话
	api.Post("/administrators", func(ctx iris.Context) {
		var req struct {
			FirstName string `json:"first_name"`
			Surname   string `json:"surname"`
			Email     string `json:"email"`
			Password  string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		id, err := identitySvc.RegisterAdministrator(ctx.Request().Context(),
			req.FirstName, req.Surname, req.Email, req.Password)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Administrator added successfully", "admin_id": id})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		result, err := identitySvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(result)
	})

	// 其余接口要求 ADMIN 角色
	adminAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"error": "missing token"})
			return
		}
		claims, err := auth.ParseToken(&cfg.JWT, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"error": "invalid token"})
			return
		}
		if claims.Role != auth.RoleAdmin {
			ctx.StopWithJSON(403, iris.Map{"error": "administrator role required"})
			return
		}
		ctx.Values().Set("admin_id", claims.UserID)
		ctx.Next()
	})

	// ---------- 商品管理 ----------

	adminAPI.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		page := ctx.URLParamIntDefault("page", 1)
		result, err := catalogSvc.List(ctx.Request().Context(), category, page)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"products": result.Products, "total": result.Total})
	})

	adminAPI.Post("/products", func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		p := &product.Product{}
		req.applyTo(p)
		if err := catalogSvc.Create(ctx.Request().Context(), p); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Product added", "products_id": p.ID})
	})

	adminAPI.Patch("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		existing, err := catalogSvc.Get(ctx.Request().Context(), id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		p := existing.Product
		req.applyTo(&p)
		if err := catalogSvc.Update(ctx.Request().Context(), &p); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Product updated"})
	})

	adminAPI.Delete("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := catalogSvc.Delete(ctx.Request().Context(), id); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Product deleted successfully"})
	})

	// 图片由外部上传服务处理，这里只登记最终 URL
	adminAPI.Post("/products/{id:int64}/images", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			URL string `json:"images_url"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		img, err := catalogSvc.AddImage(ctx.Request().Context(), id, req.URL)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Image registered", "images_id": img.ID})
	})

	// ---------- 订单管理 ----------

	adminAPI.Get("/orders", func(ctx iris.Context) {
		page := ctx.URLParamIntDefault("page", 1)
		result, err := orderSvc.ListAll(ctx.Request().Context(), page)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"orders": result.Orders, "total": result.Total})
	})

	adminAPI.Get("/orders/number/{number:string}", func(ctx iris.Context) {
		number := ctx.Params().Get("number")
		view, err := orderSvc.GetForAdmin(ctx.Request().Context(), number)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(view)
	})

	adminAPI.Patch("/orders/mark-seen/{number:string}", func(ctx iris.Context) {
		number := ctx.Params().Get("number")
		if err := orderSvc.MarkSeen(ctx.Request().Context(), number); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Order marked as seen"})
	})

	// ---------- 顾客总览 ----------

	adminAPI.Get("/customers", func(ctx iris.Context) {
		page := ctx.URLParamIntDefault("page", 1)
		result, err := identitySvc.CustomerOverview(ctx.Request().Context(), page)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"customers": result.Customers, "total": result.Total})
	})

	adminAPI.Delete("/customers/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := identitySvc.DeleteCustomer(ctx.Request().Context(), id); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Customer deleted successfully!"})
	})

	// ---------- 管理员账号维护 ----------

	adminAPI.Patch("/administrators/update_email", func(ctx iris.Context) {
		var req struct {
			AdminID int64  `json:"administrators_id"`
			Email   string `json:"administrators_email"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := identitySvc.UpdateAdministratorEmail(ctx.Request().Context(), req.AdminID, req.Email); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Administrator email updated successfully!"})
	})

	adminAPI.Post("/administrators/verify_password", func(ctx iris.Context) {
		var req struct {
			AdminID  int64  `json:"administrators_id"`
			Password string `json:"administrators_password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		ok, err := identitySvc.VerifyAdministratorPassword(ctx.Request().Context(), req.AdminID, req.Password)
		if err != nil {
			writeError(ctx, err)
			return
		}
		if !ok {
			ctx.StopWithJSON(401, iris.Map{"isValid": false, "message": "Invalid password."})
			return
		}
		ctx.JSON(iris.Map{"isValid": true})
	})

	adminAPI.Patch("/administrators/update_password", func(ctx iris.Context) {
		var req struct {
			AdminID  int64  `json:"administrators_id"`
			Password string `json:"administrators_password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := identitySvc.UpdateAdministratorPassword(ctx.Request().Context(), req.AdminID, req.Password); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Administrator password updated successfully!"})
	})

	adminAPI.Delete("/administrators/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := identitySvc.DeleteAdministrator(ctx.Request().Context(), id); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Administrator deleted successfully!"})
	})

	// ---------- 运行指标 ----------

	adminAPI.Get("/metrics", func(ctx iris.Context) {
		snapshot := service.GetMonitor().Snapshot()
		var todayOrders int
		key := fmt.Sprintf("orders:count:%s", time.Now().Format("2006-01-02"))
		if err := redisClient.Do(radix.Cmd(&todayOrders, "GET", key)); err != nil {
			service.GetMonitor().RecordCacheError()
		}
		ctx.JSON(iris.Map{
			"metrics":      snapshot,
			"orders_today": todayOrders,
		})
	})
}

// ---- 辅助结构与函数 ----

// productRequest 商品创建 / 部分更新入参，缺省字段保持原值
type productRequest struct {
	Name        *string `json:"products_name"`
	Category    *string `json:"products_category"`
	Description *string `json:"products_description"`
	Material    *string `json:"products_material"`
	Quantity    *int64  `json:"products_quantity"`
	Price       *int64  `json:"products_price"`
}

func (r *productRequest) applyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Material != nil {
		p.Material = *r.Material
	}
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
}
