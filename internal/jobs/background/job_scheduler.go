package background

import (
	"context"
	"log"
	"time"

	"github.com/jainhardik06/Qrave-sub000/internal/caching"
	"github.com/jainhardik06/Qrave-sub000/internal/jobs"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the background jobs of the inventory core.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	alertSvc   *jobs.LowStockAlertService
	cacheSvc   caching.CacheService
	itemRepo   repositories.InventoryItemRepository
	jobHandles map[string]gocron.Job
}

func NewJobScheduler(alertSvc *jobs.LowStockAlertService, cacheSvc caching.CacheService,
	itemRepo repositories.InventoryItemRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		alertSvc:   alertSvc,
		cacheSvc:   cacheSvc,
		itemRepo:   itemRepo,
		jobHandles: make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Low-stock scan - every hour
	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.alertSvc.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("low-stock-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock job: %v", err)
	} else {
		js.jobHandles["low-stock"] = lowStockJob
	}

	// Inventory value refresh - every 5 minutes
	valueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshInventoryValues, context.Background()),
		gocron.WithName("inventory-value-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create inventory value job: %v", err)
	} else {
		js.jobHandles["inventory-value"] = valueJob
	}
}

// refreshInventoryValues recomputes and caches the total inventory value per
// tenant so the dashboard aggregate stays warm.
func (js *JobScheduler) refreshInventoryValues(ctx context.Context) {
	tenantIDs, err := js.itemRepo.TenantIDs(ctx)
	if err != nil {
		log.Printf("Failed to list tenants for value refresh: %v", err)
		return
	}

	for _, tenantID := range tenantIDs {
		value, err := js.itemRepo.TotalValue(ctx, tenantID)
		if err != nil {
			log.Printf("Failed to compute inventory value for tenant %s: %v", tenantID.String(), err)
			continue
		}
		if err := js.cacheSvc.SetInventoryValue(ctx, tenantID, value, 10*time.Minute); err != nil {
			log.Printf("Failed to cache inventory value for tenant %s: %v", tenantID.String(), err)
		}
	}
}
