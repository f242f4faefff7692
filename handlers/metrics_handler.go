package handlers

import (
	"github.com/arkdale/photon/models"
	"github.com/gofiber/adaptor/v2"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics
var (
	totalFiles = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_files",
		Help: "Total number of indexed files",
	})

	totalFolders = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_folders",
		Help: "Total number of folders",
	})

	totalAlbums = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_albums",
		Help: "Total number of albums",
	})

	totalPeople = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_people",
		Help: "Total number of people",
	})

	totalFaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_faces",
		Help: "Total number of detected faces",
	})

	totalUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_users",
		Help: "Total number of users",
	})

	totalRootFolders = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "photon_total_root_folders",
		Help: "Total number of registered root folders",
	})
)

func init() {
	prometheus.MustRegister(totalFiles)
	prometheus.MustRegister(totalFolders)
	prometheus.MustRegister(totalAlbums)
	prometheus.MustRegister(totalPeople)
	prometheus.MustRegister(totalFaces)
	prometheus.MustRegister(totalUsers)
	prometheus.MustRegister(totalRootFolders)
}

// updateMetrics refreshes all gauges from current database values
func updateMetrics() {
	gauges := []struct {
		gauge prometheus.Gauge
		query string
	}{
		{totalFiles, `SELECT COUNT(*) FROM files WHERE deleted = 0`},
		{totalFolders, `SELECT COUNT(*) FROM folders`},
		{totalAlbums, `SELECT COUNT(*) FROM albums`},
		{totalPeople, `SELECT COUNT(*) FROM people`},
		{totalFaces, `SELECT COUNT(*) FROM faces`},
		{totalUsers, `SELECT COUNT(*) FROM users`},
		{totalRootFolders, `SELECT COUNT(*) FROM root_folders`},
	}

	for _, g := range gauges {
		count, err := models.CountRecords(g.query)
		if err != nil {
			log.Warnf("Failed to update metric: %v", err)
			continue
		}
		g.gauge.Set(float64(count))
	}
}

// HandleMetrics serves Prometheus metrics
func HandleMetrics(c *fiber.Ctx) error {
	updateMetrics()

	return adaptor.HTTPHandler(promhttp.Handler())(c)
}

// HandleReady serves the readiness endpoint
func HandleReady(c *fiber.Ctx) error {
	if err := models.PingDB(); err != nil {
		log.Errorf("Database not ready: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("NOT READY")
	}
	return c.SendString("OK")
}

// HandleHealth serves the health endpoint
func HandleHealth(c *fiber.Ctx) error {
	if err := models.PingDB(); err != nil {
		log.Errorf("Database health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("UNHEALTHY")
	}
	if _, err := models.CountRecords(`SELECT COUNT(*) FROM files`); err != nil {
		log.Errorf("Database query health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("UNHEALTHY")
	}
	return c.SendString("OK")
}
