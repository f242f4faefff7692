package handlers

import (
	"strings"

	"github.com/arkdale/photon/config"
	"github.com/arkdale/photon/filestore"
	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Initialize configures middleware and all HTTP routes for the API
func Initialize(app *fiber.App, cfg *config.Config, store *filestore.ThumbnailStore) {
	log.Info("Initializing application routes and middleware")

	thumbStore = store
	captchaEnabled = cfg.Auth.CaptchaEnabled
	mediaThumbHeight = cfg.Media.ThumbnailHeight
	mediaJPEGQuality = cfg.Media.JPEGQuality
	scanJPEGQuality = cfg.Media.RotateQuality

	// Scan lifecycle events feed the admin status WebSocket
	indexer.NotifyScanStarted = NotifyScanStarted
	indexer.NotifyScanFinished = NotifyScanFinished

	app.Use(requestid.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	// Health and metrics
	app.Get("/ready", HandleReady)
	app.Get("/health", HandleHealth)
	app.Get("/metrics", AuthMiddleware(models.RoleAdmin), HandleMetrics)

	api := app.Group("/api")

	// Membership
	authGroup := api.Group("/auth")
	authGroup.Post("/register", HandleRegister)
	authGroup.Post("/login", HandleLogin)
	authGroup.Post("/logout", HandleLogout)
	authGroup.Get("/status", AuthMiddleware(models.RoleViewer), HandleAuthStatus)
	authGroup.Get("/captcha/new", HandleCaptchaNew)
	authGroup.Get("/captcha/:id.png", HandleCaptchaImage)

	// Per-user client settings
	api.Get("/settings", AuthMiddleware(models.RoleViewer), HandleGetUserConfig)
	api.Put("/settings", AuthMiddleware(models.RoleViewer), HandleSetUserConfig)

	// Root folders
	rootFolders := api.Group("/rootfolders")
	rootFolders.Get("", AuthMiddleware(models.RoleViewer), HandleGetRootFolders)
	rootFolders.Post("", AuthMiddleware(models.RoleAdmin), HandleCreateRootFolder)
	rootFolders.Get("/:slug", AuthMiddleware(models.RoleViewer), HandleGetRootFolder)
	rootFolders.Put("/:slug", AuthMiddleware(models.RoleAdmin), HandleUpdateRootFolder)
	rootFolders.Delete("/:slug", AuthMiddleware(models.RoleAdmin), HandleDeleteRootFolder)
	rootFolders.Post("/:slug/scan", AuthMiddleware(models.RoleAdmin), HandleScanRootFolder)
	rootFolders.Get("/:slug/scan", AuthMiddleware(models.RoleViewer), HandleRootFolderScanStatus)

	// Folder tree
	folders := api.Group("/folders", AuthMiddleware(models.RoleViewer))
	folders.Get("", HandleGetFolders)
	folders.Get("/:id", HandleGetFolder)
	folders.Get("/:id/files", HandleGetFolderFiles)

	// Files
	files := api.Group("/files")
	files.Get("", AuthMiddleware(models.RoleViewer), HandleGetFiles)
	files.Get("/:id", AuthMiddleware(models.RoleViewer), HandleGetFile)
	files.Patch("/:id", AuthMiddleware(models.RoleEditor), HandlePatchFile)
	files.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeleteFile)
	files.Get("/:id/albums", AuthMiddleware(models.RoleViewer), HandleGetFileAlbums)
	files.Get("/:id/faces", AuthMiddleware(models.RoleViewer), HandleGetFileFaces)

	// Media content
	app.Get("/api/media/:id", AuthMiddleware(models.RoleViewer), HandleMediaRequest)

	// Albums
	albums := api.Group("/albums")
	albums.Get("", AuthMiddleware(models.RoleViewer), HandleGetAlbums)
	albums.Post("", AuthMiddleware(models.RoleEditor), HandleCreateAlbum)
	albums.Get("/:id", AuthMiddleware(models.RoleViewer), HandleGetAlbum)
	albums.Put("/:id", AuthMiddleware(models.RoleEditor), HandleUpdateAlbum)
	albums.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeleteAlbum)
	albums.Put("/:id/files/:fileId", AuthMiddleware(models.RoleEditor), HandleAddFileToAlbum)
	albums.Delete("/:id/files/:fileId", AuthMiddleware(models.RoleEditor), HandleRemoveFileFromAlbum)

	// People and groups
	people := api.Group("/people")
	people.Get("", AuthMiddleware(models.RoleViewer), HandleGetPeople)
	people.Post("", AuthMiddleware(models.RoleEditor), HandleCreatePerson)
	people.Get("/:id", AuthMiddleware(models.RoleViewer), HandleGetPerson)
	people.Put("/:id", AuthMiddleware(models.RoleEditor), HandleUpdatePerson)
	people.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeletePerson)
	people.Get("/:id/faces", AuthMiddleware(models.RoleViewer), HandleGetPersonFaces)
	people.Get("/:id/thumbnail", AuthMiddleware(models.RoleViewer), HandleGetPersonThumbnail)

	groups := api.Group("/persongroups")
	groups.Get("", AuthMiddleware(models.RoleViewer), HandleGetPersonGroups)
	groups.Post("", AuthMiddleware(models.RoleEditor), HandleCreatePersonGroup)
	groups.Put("/:id", AuthMiddleware(models.RoleEditor), HandleUpdatePersonGroup)
	groups.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeletePersonGroup)

	// Face review workflow
	facesGroup := api.Group("/faces")
	facesGroup.Get("", AuthMiddleware(models.RoleViewer), HandleGetFacesByStatus)
	facesGroup.Post("/predict", AuthMiddleware(models.RoleEditor), HandleRunPredictions)
	facesGroup.Get("/:id", AuthMiddleware(models.RoleViewer), HandleGetFace)
	facesGroup.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeleteFace)
	facesGroup.Put("/:id/person", AuthMiddleware(models.RoleEditor), HandleAssignFace)
	facesGroup.Put("/:id/status", AuthMiddleware(models.RoleEditor), HandleSetFaceStatus)
	facesGroup.Get("/:id/crop", AuthMiddleware(models.RoleViewer), HandleGetFaceCrop)

	// Geotag areas
	areas := api.Group("/geotagareas")
	areas.Get("", AuthMiddleware(models.RoleViewer), HandleGetGeoTagAreas)
	areas.Post("", AuthMiddleware(models.RoleEditor), HandleCreateGeoTagArea)
	areas.Get("/:id", AuthMiddleware(models.RoleViewer), HandleGetGeoTagArea)
	areas.Put("/:id", AuthMiddleware(models.RoleEditor), HandleUpdateGeoTagArea)
	areas.Delete("/:id", AuthMiddleware(models.RoleEditor), HandleDeleteGeoTagArea)
	areas.Get("/:id/files", AuthMiddleware(models.RoleViewer), HandleGetGeoTagAreaFiles)

	// Scanner sheet cropping
	scans := api.Group("/scans")
	scans.Get("", AuthMiddleware(models.RoleEditor), HandleGetScanRoots)
	scans.Post("", AuthMiddleware(models.RoleAdmin), HandleCreateScanRoot)
	scans.Post("/sync", AuthMiddleware(models.RoleEditor), HandleSyncScanRoots)
	scans.Delete("/:id", AuthMiddleware(models.RoleAdmin), HandleDeleteScanRoot)
	scans.Get("/:id/folders", AuthMiddleware(models.RoleEditor), HandleGetScanFolders)
	scans.Get("/folders/:id/files", AuthMiddleware(models.RoleEditor), HandleGetScanFiles)
	scans.Get("/files/:id", AuthMiddleware(models.RoleEditor), HandleGetScanFile)
	scans.Get("/files/:id/image", AuthMiddleware(models.RoleEditor), HandleGetScanSheetImage)
	scans.Put("/files/:id/options", AuthMiddleware(models.RoleEditor), HandleSetScanOptions)
	scans.Post("/files/:id/detect", AuthMiddleware(models.RoleEditor), HandleDetectScanFile)
	scans.Post("/files/:id/confirm", AuthMiddleware(models.RoleEditor), HandleConfirmScanFile)
	scans.Post("/files/:id/skip", AuthMiddleware(models.RoleEditor), HandleSkipScanFile)

	// Search
	api.Get("/search", AuthMiddleware(models.RoleViewer), HandleSearch)

	// Administration
	admin := api.Group("/admin", AuthMiddleware(models.RoleAdmin))
	admin.Get("/users", HandleGetUsers)
	admin.Put("/users/:username/role", HandleSetUserRole)
	admin.Put("/users/:username/password", HandleSetUserPassword)
	admin.Put("/users/:username/ban", HandleSetUserBanned)
	admin.Delete("/users/:username", HandleDeleteUser)
	admin.Get("/invites", HandleGetInvites)
	admin.Post("/invites", HandleCreateInvite)
	admin.Delete("/invites/:token", HandleDeleteInvite)
	admin.Get("/logs", HandleGetLogs)
	admin.Get("/logs/ws", HandleConsoleLogsWebSocketUpgrade)
	admin.Get("/scans/ws", HandleScanStatusWebSocketUpgrade)
}
