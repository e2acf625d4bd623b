package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, s.auth))
	{
		a.registerStudentRoutes(authGroup, c)

		// 课程管理接口: 教师与管理员
		manage := authGroup.Group("/manage")
		manage.Use(middleware.RoleMiddleware(model.Teacher))
		{
			a.registerManageRoutes(manage, c)
		}
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/", c.course.APIRoot)
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/subjects", c.subject.ListSubjects)
		public.GET("/subjects/:id", c.subject.GetSubject)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		// Slug-keyed browse surface backed by the per-subject cache keys.
		catalog := public.Group("/catalog")
		{
			catalog.GET("/subjects/:slug/courses", c.course.ListCoursesBySubject)
			catalog.GET("/courses/:slug", c.course.GetCourseBySlug)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/courses/:id/contents", c.course.GetCourseContents)

	rg.GET("/students/courses", c.student.ListMyCourses)
	rg.GET("/students/courses/:id", c.student.GetMyCourse)
}

func (a *App) registerManageRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/courses", c.manageCourse.ListOwnedCourses)
	rg.POST("/courses", c.manageCourse.CreateCourse)
	rg.PUT("/courses/:id", c.manageCourse.UpdateCourse)
	rg.DELETE("/courses/:id", c.manageCourse.DeleteCourse)

	rg.POST("/courses/:id/modules", c.manageCourse.CreateModule)
	rg.PUT("/courses/:id/modules/order", c.manageCourse.ReorderModules)
	rg.PUT("/modules/:id", c.manageCourse.UpdateModule)
	rg.DELETE("/modules/:id", c.manageCourse.DeleteModule)

	rg.GET("/modules/:id/contents", c.manageContent.ListModuleContents)
	rg.POST("/modules/:id/contents/:type", c.manageContent.CreateContent)
	rg.PUT("/contents/:id", c.manageContent.UpdateContent)
	rg.DELETE("/contents/:id", c.manageContent.DeleteContent)
}
