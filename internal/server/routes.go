// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"talenttrack-backend/internal/controller/application"
	"talenttrack-backend/internal/controller/job"
	"talenttrack-backend/internal/controller/notification"
	"talenttrack-backend/internal/controller/stream"
	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/middleware"

	// Init swagger doc
	_ "talenttrack-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	jobCtrl := job.NewJobController(s.Lifecycle, s.Store)
	appCtrl := application.NewApplicationController(s.Lifecycle, s.Store, s.Storage)
	notifCtrl := notification.NewNotificationController(s.Store)
	streamCtrl := stream.NewStreamController(s.Sync)

	r.Use(middleware.SafeHeader())
	r.Use(middleware.RateLimiterMiddleware(s.Config.Server.RequestsPerSecond))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.Config.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	maxBody := s.Config.Attachments.MaxFileSizeMB << 20 * int64(s.Config.Attachments.MaxFiles)

	v1 := r.Group("/api/v1")
	{
		jobRoute := v1.Group("/jobs")
		{
			jobRoute.GET("", jobCtrl.GetOpenJobs)
			jobRoute.GET(":id", jobCtrl.GetJobHandler)

			jobRoute.Use(middleware.RequireAuth(), middleware.CheckRole(identity.RoleHR))
			jobRoute.POST("", jobCtrl.CreateJobHandler)
			jobRoute.GET("/all", jobCtrl.GetAllJobs)
			jobRoute.PATCH(":id", jobCtrl.EditJobHandler)
			jobRoute.POST(":id/activate", jobCtrl.ActivateJobHandler)
			jobRoute.POST(":id/close", jobCtrl.CloseJobHandler)
			jobRoute.GET(":id/applications", jobCtrl.GetJobApplications)
		}

		appRoute := v1.Group("/applications")
		{
			appRoute.POST("", middleware.SizeLimit(maxBody), appCtrl.SubmitHandler)

			appRoute.Use(middleware.RequireAuth())
			appRoute.GET("/mine", appCtrl.GetMyApplications)
			appRoute.GET(":id", appCtrl.GetApplicationHandler)
			appRoute.GET(":id/attachments/:index", appCtrl.DownloadAttachmentHandler)

			appRoute.Use(middleware.CheckRole(identity.RoleHR))
			appRoute.GET("", appCtrl.GetAllApplications)
			appRoute.PATCH(":id/status", appCtrl.TransitionHandler)
			appRoute.POST(":id/interview", appCtrl.ScheduleInterviewHandler)
		}

		notifRoute := v1.Group("/notifications")
		{
			notifRoute.Use(middleware.RequireAuth(), middleware.CheckRole(identity.RoleHR))
			notifRoute.GET("", notifCtrl.GetNotifications)
			notifRoute.GET("/counts", notifCtrl.GetDeliveryCounts)
		}

		streamRoute := v1.Group("/streams")
		{
			streamRoute.GET("/jobs", streamCtrl.OpenJobsStream)

			streamRoute.Use(middleware.RequireAuth())
			streamRoute.GET("/my-applications", streamCtrl.MyApplicationsStream)

			streamRoute.Use(middleware.CheckRole(identity.RoleHR))
			streamRoute.GET("/applications", streamCtrl.AllApplicationsStream)
			streamRoute.GET("/jobs/:id/applications", streamCtrl.JobApplicationsStream)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
