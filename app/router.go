// Package app wires every endpoint to its handler
package app

import (
	"bitwise74/docvault-api/app/admin"
	"bitwise74/docvault-api/app/contact"
	"bitwise74/docvault-api/app/document"
	"bitwise74/docvault-api/app/root"
	"bitwise74/docvault-api/app/share"
	"bitwise74/docvault-api/app/user"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/pkg/middleware"
	"net/http"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type RouterOptions struct {
	CORSOrigins []string
	Turnstile   middleware.TurnstileConfig
	// Requests per second per client IP, 0 disables limiting
	RateLimit int
	// Limiter is built from RateLimit when nil
	Limiter *middleware.RateLimiter
	// CacheStore defaults to an in-memory store
	CacheStore persist.CacheStore
}

func NewRouter(d *internal.Deps, o RouterOptions) *gin.Engine {
	router := gin.New()

	store := o.CacheStore
	if store == nil {
		store = persist.NewMemoryStore(time.Minute)
	}

	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"http://localhost:5173"}
	}

	if o.Limiter == nil {
		o.Limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: o.RateLimit,
			Burst:             o.RateLimit * 2,
		})
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		middleware.NewMetricsMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d.Auth, false)
	jwtUnverified := middleware.NewJWTMiddleware(d.Auth, true)
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)
	manageUsers := middleware.RequireCapability(d.Profiles, middleware.CanManageUsers)
	smallBody := middleware.BodySizeLimiter(1 << 20)
	// Multipart framing and the text fields ride on top of the file itself
	uploadBody := middleware.BodySizeLimiter(d.MaxUploadSize + 1<<20)

	// GET /metrics			-> Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	main := router.Group("/api", o.Limiter.Middleware())
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates the session cookie
		main.GET("/validate", jwtUnverified, root.Validate)

		// GET /api/meta		-> Categories, document types, expiry presets and upload limits
		main.GET("/meta", cache.CacheByRequestURI(store, 5*time.Minute), func(c *gin.Context) { root.Meta(c, d) })
	}

	users := main.Group("/users", smallBody)
	{
		// GET /api/users		-> Returns the profile, capabilities and stats of a user
		users.GET("", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// PATCH /api/users		-> Updates the profile of a user
		users.PATCH("", jwt, func(c *gin.Context) { user.UserUpdate(c, d) })

		// POST /api/users 		-> Registers a new user
		users.POST("", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Logs in a user and sets the session cookies
		users.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/logout 	-> Revokes every session of the user
		users.POST("/logout", jwtUnverified, func(c *gin.Context) { user.UserLogout(c, d) })

		// POST /api/users/verify	-> Verifies a new user
		users.POST("/verify", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /api/users/verify/resend	-> Sends a new verification email
		users.POST("/verify/resend", jwtUnverified, func(c *gin.Context) { user.UserResendVerification(c, d) })

		// POST /api/users/password/forgot	-> Mails a password reset link
		users.POST("/password/forgot", func(c *gin.Context) { user.UserForgotPassword(c, d) })

		// POST /api/users/password/reset	-> Sets a new password using a reset token
		users.POST("/password/reset", func(c *gin.Context) { user.UserResetPassword(c, d) })

		// POST /api/users/password	-> Changes the password of a signed in user
		users.POST("/password", jwtUnverified, func(c *gin.Context) { user.UserChangePassword(c, d) })
	}

	docs := main.Group("/documents", jwt)
	{
		// POST /api/documents		-> Uploads a document
		docs.POST("", uploadBody, func(c *gin.Context) { document.DocumentUpload(c, d) })

		// GET /api/documents		-> Returns one page of the user's documents
		docs.GET("", func(c *gin.Context) { document.DocumentList(c, d) })

		// GET /api/documents/search	-> Searches the user's documents
		docs.GET("/search", func(c *gin.Context) { document.DocumentSearch(c, d) })

		// GET /api/documents/stats	-> Returns document totals of the user
		docs.GET("/stats", cachePerUser(store, 10*time.Second), func(c *gin.Context) { document.DocumentStats(c, d) })

		// GET /api/documents/:id	-> Returns a document owned by the user
		docs.GET("/:id", func(c *gin.Context) { document.DocumentFetch(c, d) })

		// PATCH /api/documents/:id	-> Edits document metadata
		docs.PATCH("/:id", smallBody, func(c *gin.Context) { document.DocumentEdit(c, d) })

		// DELETE /api/documents/:id	-> Deletes a document and its binary
		docs.DELETE("/:id", func(c *gin.Context) { document.DocumentDelete(c, d) })

		// POST /api/documents/:id/share	-> Enables the public link
		docs.POST("/:id/share", smallBody, func(c *gin.Context) { share.ShareEnable(c, d) })

		// DELETE /api/documents/:id/share	-> Disables the public link
		docs.DELETE("/:id/share", func(c *gin.Context) { share.ShareDisable(c, d) })
	}

	// GET /api/shared/:id		-> Public view of a shared document
	main.GET("/shared/:id", func(c *gin.Context) { share.ShareView(c, d) })

	// POST /api/contacts		-> Stores a contact form message
	main.POST("/contacts", smallBody, turnstile, func(c *gin.Context) { contact.ContactSubmit(c, d) })

	adm := main.Group("/admin", jwt, manageUsers)
	{
		// GET /api/admin/users		-> Lists every profile
		adm.GET("/users", func(c *gin.Context) { admin.AdminUsers(c, d) })

		// PATCH /api/admin/users/:id/role	-> Changes the role of a user
		adm.PATCH("/users/:id/role", smallBody, func(c *gin.Context) { admin.AdminUpdateRole(c, d) })

		// GET /api/admin/contacts	-> Lists contact form messages
		adm.GET("/contacts", func(c *gin.Context) { admin.AdminContacts(c, d) })
	}

	return router
}

// cachePerUser keys the cache on the caller as well as the URI. Must run
// after the JWT middleware.
func cachePerUser(store persist.CacheStore, ttl time.Duration) gin.HandlerFunc {
	return cache.Cache(store, ttl, cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey: c.GetString("userID") + ":" + c.Request.RequestURI,
		}
	}))
}
