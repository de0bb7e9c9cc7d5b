package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cybersense-learning-service/internal/rbac"
)

// RouterDeps bundles the handlers and auth pieces the router mounts.
type RouterDeps struct {
	Issuer   *TokenIssuer
	Auth     *AuthHandler
	Content  *ContentHandler
	Users    *UserHandler
	Forum    *ForumHandler
	Progress *ProgressHandler
	WS       *WSHandler
	Origins  []string
}

// NewRouter assembles the full route table. Registration, login and
// password reset are public; everything else requires a bearer token.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := deps.Origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", viewAsUserHeader},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/register", deps.Auth.Register)
	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/auth/reset", deps.Auth.RequestPasswordReset)

	r.Group(func(pr chi.Router) {
		pr.Use(Authenticate(deps.Issuer))

		pr.Post("/auth/logout", deps.Auth.Logout)
		pr.Get("/auth/session", deps.Auth.Session)
		pr.Post("/auth/password", deps.Auth.ChangePassword)
		pr.Put("/auth/profile", deps.Auth.UpdateProfile)

		pr.Route("/modules", func(mr chi.Router) {
			mr.Get("/", deps.Content.ListModules)
			mr.With(rbac.Require(rbac.PermContentManage)).Post("/", deps.Content.CreateModule)
			mr.Route("/{moduleID}", func(one chi.Router) {
				one.Get("/", deps.Content.GetModule)
				one.With(rbac.Require(rbac.PermContentManage)).Put("/", deps.Content.UpdateModule)
				one.With(rbac.Require(rbac.PermContentManage)).Delete("/", deps.Content.DeleteModule)

				one.Route("/quizzes", func(qr chi.Router) {
					qr.Get("/", deps.Content.ListQuizzes)
					qr.With(rbac.Require(rbac.PermContentManage)).Post("/", deps.Content.CreateQuiz)
					qr.Route("/{quizID}", func(oq chi.Router) {
						oq.Get("/", deps.Content.GetQuiz)
						oq.With(rbac.Require(rbac.PermContentManage)).Put("/", deps.Content.UpdateQuiz)
						oq.With(rbac.Require(rbac.PermContentManage)).Delete("/", deps.Content.DeleteQuiz)

						oq.Route("/questions", func(qq chi.Router) {
							qq.Get("/", deps.Content.ListQuestions)
							qq.With(rbac.Require(rbac.PermContentManage)).Post("/", deps.Content.CreateQuestion)
							qq.With(rbac.Require(rbac.PermContentManage)).Put("/{questionID}", deps.Content.UpdateQuestion)
							qq.With(rbac.Require(rbac.PermContentManage)).Delete("/{questionID}", deps.Content.DeleteQuestion)
						})
					})
				})
			})
		})

		pr.Route("/users", func(ur chi.Router) {
			ur.With(rbac.RequireRaw(rbac.PermUsersManage)).Get("/", deps.Users.List)
			ur.With(rbac.RequireRaw(rbac.PermUsersManage)).Post("/", deps.Users.Add)
			ur.Get("/{userID}", deps.Users.Get)
			ur.With(rbac.RequireRaw(rbac.PermUsersManage)).Put("/{userID}", deps.Users.Update)
			ur.With(rbac.RequireRaw(rbac.PermUsersManage)).Delete("/{userID}", deps.Users.Delete)
		})

		pr.Route("/forum/posts", func(fr chi.Router) {
			fr.Get("/", deps.Forum.ListPosts)
			fr.Post("/", deps.Forum.CreatePost)
			fr.Put("/{postID}", deps.Forum.UpdatePost)
			fr.Delete("/{postID}", deps.Forum.DeletePost)
			fr.Get("/{postID}/comments", deps.Forum.ListComments)
			fr.Post("/{postID}/comments", deps.Forum.AddComment)
		})

		pr.Get("/progress", deps.Progress.List)
		pr.Get("/ws/quiz", deps.WS.ServeWS)
	})

	return r
}
