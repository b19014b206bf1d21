package server

import (
	"github.com/kataras/iris/v12"

	"github.com/Dashazem/back-end-capstone-project/internal/auth"
	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/mq"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/redis"
	"github.com/Dashazem/back-end-capstone-project/internal/middleware"
	"github.com/Dashazem/back-end-capstone-project/internal/repository/mysql"
	"github.com/Dashazem/back-end-capstone-project/internal/service"
)

// RegisterRoutes 注册顾客端 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
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
	addressSvc := service.NewAddressService(addressRepo)
	paymentSvc := service.NewPaymentService(paymentRepo)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, addressRepo, customerRepo, paymentRepo, mqConn)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"message": "ok"})
	})

	// 顾客注册
	api.Post("/customers", func(ctx iris.Context) {
		var req struct {
			FirstName string          `json:"first_name"`
			Surname   string          `json:"surname"`
			Email     string          `json:"email"`
			Password  string          `json:"password"`
			Address   address.Address `json:"address"`
			Contact   struct {
				PhoneNumber string `json:"phone_number"`
			} `json:"contact"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		id, err := identitySvc.RegisterCustomer(ctx.Request().Context(), &service.RegisterCustomerRequest{
			FirstName: req.FirstName,
			Surname:   req.Surname,
			Email:     req.Email,
			Password:  req.Password,
			Address:   req.Address,
			Phone:     req.Contact.PhoneNumber,
		})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Customer added successfully", "customer_id": id})
	})

	// 登录：顾客与管理员共用入口
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

	// 商品浏览不需要登录
	api.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		page := ctx.URLParamIntDefault("page", 1)
		result, err := catalogSvc.List(ctx.Request().Context(), category, page)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"products": result.Products, "total": result.Total})
	})

	api.Get("/product/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := catalogSvc.Get(ctx.Request().Context(), id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"product": p})
	})

	// 需要登录的接口
	authAPI := api.Party("/", func(ctx iris.Context) {
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
		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	})

	// 顾客资料
	authAPI.Get("/customers/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		view, err := identitySvc.GetCustomer(ctx.Request().Context(), id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"customer": view})
	})

	authAPI.Patch("/customers/update_email", func(ctx iris.Context) {
		var req struct {
			CustomerID int64  `json:"customers_id"`
			Email      string `json:"customers_email"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := identitySvc.UpdateCustomerEmail(ctx.Request().Context(), req.CustomerID, req.Email); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Customer email updated successfully!"})
	})

	authAPI.Post("/customers/verify_password", func(ctx iris.Context) {
		var req struct {
			CustomerID int64  `json:"customers_id"`
			Password   string `json:"customers_password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		ok, err := identitySvc.VerifyCustomerPassword(ctx.Request().Context(), req.CustomerID, req.Password)
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

	authAPI.Patch("/customers/update_password", func(ctx iris.Context) {
		var req struct {
			CustomerID int64  `json:"customers_id"`
			Password   string `json:"customers_password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := identitySvc.UpdateCustomerPassword(ctx.Request().Context(), req.CustomerID, req.Password); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Customer password updated successfully!"})
	})

	authAPI.Patch("/customers/update_phone", func(ctx iris.Context) {
		var req struct {
			CustomerID  int64  `json:"customers_id"`
			PhoneNumber string `json:"customers_phone_number"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := identitySvc.UpdateCustomerPhone(ctx.Request().Context(), req.CustomerID, req.PhoneNumber); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Customer phone number updated successfully!"})
	})

	// 地址管理
	authAPI.Get("/customers/{id:int64}/addresses", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		list, err := addressSvc.ListByCustomer(ctx.Request().Context(), id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"addresses": list})
	})

	authAPI.Get("/addresses/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		a, err := addressSvc.Get(ctx.Request().Context(), id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(a)
	})

	authAPI.Post("/addresses", func(ctx iris.Context) {
		var a address.Address
		if err := ctx.ReadJSON(&a); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		if err := addressSvc.Add(ctx.Request().Context(), &a); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Address added successfully!"})
	})

	authAPI.Patch("/addresses/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var a address.Address
		if err := ctx.ReadJSON(&a); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		a.ID = id
		if err := addressSvc.Update(ctx.Request().Context(), &a); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Address updated successfully!"})
	})

	authAPI.Delete("/addresses/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := addressSvc.Delete(ctx.Request().Context(), id); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"message": "Address deleted successfully!"})
	})

	// 支付回调落库，订单创建前调用
	authAPI.Post("/transactions", func(ctx iris.Context) {
		var req struct {
			PayerName  string `json:"payer_name"`
			PayerEmail string `json:"payer_email"`
			Number     string `json:"transaction_id"`
			Amount     int64  `json:"amount"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		id, err := paymentSvc.Create(ctx.Request().Context(), &payment.Record{
			PayerName:  req.PayerName,
			PayerEmail: req.PayerEmail,
			Number:     req.Number,
			Amount:     req.Amount,
		})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"success": true, "transaction_id": id})
	})

	// 下单（整车一个事务）
	authAPI.Post("/orders", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		var cart order.Cart
		if err := ctx.ReadJSON(&cart); err != nil {
			ctx.StopWithJSON(400, iris.Map{"error": err.Error()})
			return
		}
		o, err := orderSvc.Place(ctx.Request().Context(), &cart)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Order created successfully!", "order_number": o.Number})
	})

	// 当前顾客的订单列表
	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		page := ctx.URLParamIntDefault("page", 1)
		result, err := orderSvc.ListForCustomer(ctx.Request().Context(), userID, page)
		if err != nil {
			writeError(ctx, err)
			return
		}
		orders := make([]iris.Map, 0, len(result.Orders))
		for _, s := range result.Orders {
			// 顾客侧不暴露 seen 标记
			orders = append(orders, iris.Map{
				"order_number": s.Number,
				"total_price":  s.TotalPrice,
				"date":         s.Date,
			})
		}
		ctx.JSON(iris.Map{"orders": orders, "total": result.Total})
	})

	// 顾客侧订单详情
	authAPI.Get("/orders/number/{number:string}", func(ctx iris.Context) {
		number := ctx.Params().Get("number")
		view, err := orderSvc.GetForCustomer(ctx.Request().Context(), number)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(view)
	})
}
