package main

import (
	"time"

	"fastfood/internal/config"
	"fastfood/internal/domain/model"
	"fastfood/internal/handler"
	"fastfood/internal/infra/db"
	infraRepo "fastfood/internal/infra/repository"
	"fastfood/internal/mail"
	"fastfood/internal/otp"
	"fastfood/internal/server"
	"fastfood/internal/usecase"
	auth "fastfood/internal/usecase/auth_usecase"
	"fastfood/internal/vnpay"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := zap.NewProduction()
	if cfg.GoEnv == "dev" {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderLine{},
		&model.Payment{},
		&model.Promotion{},
		&model.PromotionDetail{},
		&model.Favorite{},
		&model.Review{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	//OTPストア（redis）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	otpStore := otp.NewRedisStore(rdb, 5*time.Minute)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderLineRepo := infraRepo.NewOrderLineGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	promotionRepo := infraRepo.NewPromotionGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//決済ゲートウェイ
	gateway := vnpay.New(vnpay.Config{
		TmnCode:    cfg.VNPayTmnCode,
		HashSecret: cfg.VNPayHashSecret,
		BaseURL:    cfg.VNPayBaseURL,
		ReturnURL:  cfg.VNPayReturnURL,
	})

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}

	mailer := mail.NewLogMailer(log)

	//Usecase生成
	registerUC := auth.NewRegisterUsecase(userRepo, hasher)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer)
	resetUC := auth.NewPasswordResetUsecase(userRepo, otpStore, mailer, hasher, log)
	changePasswordUC := auth.NewChangePasswordUsecase(userRepo, verifier, hasher)

	userUC := usecase.NewUserUsecase(userRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	promotionUC := usecase.NewPromotionUsecase(promotionRepo)
	orderUC := usecase.NewOrderUsecase(
		txManager, orderRepo, orderLineRepo, paymentRepo, addressRepo, productRepo,
		promotionUC, gateway,
		usecase.PricingConfig{TaxFee: cfg.TaxFee, ShippingFee: cfg.ShippingFee},
		log,
	)
	adminUC := usecase.NewAdminUsecase(orderRepo, orderLineRepo, paymentRepo, productRepo, userRepo, auditRepo, log)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC, resetUC, changePasswordUC),
		User:      handler.NewUserHandler(userUC, addressUC, favoriteUC),
		Cart:      handler.NewCartHandler(cartUC),
		Product:   handler.NewProductHandler(productUC, reviewUC),
		Promotion: handler.NewPromotionHandler(promotionUC),
		Order:     handler.NewOrderHandler(orderUC),
		Admin:     handler.NewAdminHandler(adminUC),
	}

	e := server.New(cfg, log, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
