package indexer

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/scheduler"
)

// Callback hooks set by other packages
var (
	// PostScanFunc runs after a scan completes, e.g. the face detection pass
	PostScanFunc func(root models.RootFolder)
	// NotifyScanStarted and NotifyScanFinished feed the admin live log
	NotifyScanStarted  func(slug string, name string)
	NotifyScanFinished func(slug string)
)

var (
	workerCount    = 4
	activeIndexers sync.Map
	scanRunning    sync.Map
)

// ScanJob wraps a root folder scan for the cron scheduler
type ScanJob struct {
	Root        *models.RootFolder
	ExecuteFunc func(root *models.RootFolder) error
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return fmt.Sprintf("scan-%s", j.Root.Slug)
}

// Execute runs the scan for the root folder
func (j *ScanJob) Execute() error {
	if j.ExecuteFunc != nil {
		return j.ExecuteFunc(j.Root)
	}
	return fmt.Errorf("no execute function provided")
}

// Indexer owns the scan schedule and state for one root folder
type Indexer struct {
	Root             models.RootFolder
	Scheduler        *scheduler.CronScheduler
	SchedulerRunning bool
	JobRunning       bool
	stop             chan struct{}
	stopOnce         sync.Once
}

// Initialize sets up an indexer per registered root folder and starts
// listening for root folder changes
func Initialize(workers int, roots []models.RootFolder) {
	if workers > 0 {
		workerCount = workers
	}
	log.Info("Initializing indexers")

	for _, root := range roots {
		indexer := NewIndexer(root)
		go indexer.Start()
	}

	models.AddListener(&NotificationListener{})
}

// NewIndexer creates a new Indexer instance
func NewIndexer(root models.RootFolder) *Indexer {
	return &Indexer{
		Root: root,
		stop: make(chan struct{}),
	}
}

// Start registers the cron job and blocks until the indexer is stopped
func (idx *Indexer) Start() {
	idx.Scheduler = scheduler.NewCronScheduler()
	job := &ScanJob{
		Root: &idx.Root,
		ExecuteFunc: func(root *models.RootFolder) error {
			idx.runScanJob()
			return nil
		},
	}
	if err := idx.Scheduler.AddJob(job.Name(), idx.Root.Cron, job); err != nil {
		log.Errorf("Error adding cron job: %s", err)
		return
	}
	idx.Scheduler.Start()
	idx.SchedulerRunning = true

	activeIndexers.Store(idx.Root.Slug, idx)

	log.Infof("Root folder indexer '%s' registered with cron schedule '%s'",
		idx.Root.Name, idx.Root.Cron)

	<-idx.stop
	idx.Stop()
}

// Stop stops the indexer and cleans up
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() {
		if idx.SchedulerRunning {
			idx.Scheduler.Stop()
			idx.SchedulerRunning = false
			log.Infof("Stopped indexer for root folder: '%s'", idx.Root.Name)
		}
		activeIndexers.Delete(idx.Root.Slug)
		close(idx.stop)
	})
}

// RunScanJob triggers the scan immediately, outside the cron schedule
func (idx *Indexer) RunScanJob() bool {
	return idx.runScanJob()
}

// TriggerScan starts a scan for a root folder by slug. Returns false when
// no indexer is registered or a scan is already running.
func TriggerScan(slug string) bool {
	val, ok := activeIndexers.Load(slug)
	if !ok {
		return false
	}
	indexer := val.(*Indexer)
	go indexer.RunScanJob()
	return true
}

// ScanRunning reports whether a scan is in flight for the given slug
func ScanRunning(slug string) bool {
	val, ok := scanRunning.Load(slug)
	return ok && val.(bool)
}

// StopAllIndexers stops all running indexers
func StopAllIndexers() {
	activeIndexers.Range(func(key, value interface{}) bool {
		indexer := value.(*Indexer)
		if indexer != nil {
			log.Infof("Stopping indexer for root folder: %s", key.(string))
			indexer.Stop()
		}
		return true
	})
}

// NotificationListener reacts to root folder lifecycle events
type NotificationListener struct{}

// Notify processes incoming notifications
func (nl *NotificationListener) Notify(notification models.Notification) {
	root, ok := notification.Payload.(models.RootFolder)
	if !ok {
		return
	}
	log.Debugf("Received notification of type '%s' for root folder '%s'", notification.Type, root.Name)

	switch notification.Type {
	case "rootfolder_created":
		nl.handleCreated(root)
	case "rootfolder_updated":
		nl.handleUpdated(root)
	case "rootfolder_deleted":
		nl.handleDeleted(root)
	}
}

func (nl *NotificationListener) handleCreated(root models.RootFolder) {
	indexer := NewIndexer(root)
	activeIndexers.Store(root.Slug, indexer)
	go indexer.Start()
}

func (nl *NotificationListener) handleUpdated(root models.RootFolder) {
	if val, ok := activeIndexers.Load(root.Slug); ok {
		val.(*Indexer).Stop()
	}
	newIndexer := NewIndexer(root)
	activeIndexers.Store(root.Slug, newIndexer)
	go newIndexer.Start()
}

func (nl *NotificationListener) handleDeleted(root models.RootFolder) {
	if val, ok := activeIndexers.Load(root.Slug); ok {
		val.(*Indexer).Stop()
	}
}
