package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/config"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/workdeskhq/attendance-backend-go/internal/handler/http"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/cron"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/database"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/jwt"
	"github.com/workdeskhq/attendance-backend-go/internal/repository/postgresql"
	analyticsService "github.com/workdeskhq/attendance-backend-go/internal/service/analytics"
	attendanceService "github.com/workdeskhq/attendance-backend-go/internal/service/attendance"
	correctionService "github.com/workdeskhq/attendance-backend-go/internal/service/correction"
	"github.com/workdeskhq/attendance-backend-go/internal/service/export"
	leaveService "github.com/workdeskhq/attendance-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	policy, err := shiftPolicy(cfg.Shift)
	if err != nil {
		fmt.Println("Error building shift policy:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	clk := clock.System()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	analyticsRepo := postgresql.NewAnalyticsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clk, policy)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, clk, cfg.Leave)
	correctionSvc := correctionService.NewCorrectionService(db, correctionRepo, attendanceRepo, clk, policy)
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepo, employeeRepo, clk, policy)
	exportSvc := export.NewExportService(attendanceRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	analyticsHandler := appHTTP.NewAnalyticsHandler(analyticsSvc)
	reportHandler := appHTTP.NewReportHandler(exportSvc, clk, policy)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, clk, policy, cfg.Shift.SweepInterval, cfg.Shift.AutoCloseCopyDraft)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		attendanceHandler,
		leaveHandler,
		correctionHandler,
		analyticsHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

// shiftPolicy translates the configured shift times into offsets from local
// midnight.
func shiftPolicy(cfg config.ShiftConfig) (attendance.ShiftPolicy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return attendance.ShiftPolicy{}, fmt.Errorf("invalid SHIFT_TIMEZONE: %w", err)
	}

	start, err := time.Parse("15:04", cfg.StartTime)
	if err != nil {
		return attendance.ShiftPolicy{}, fmt.Errorf("invalid SHIFT_START_TIME: %w", err)
	}

	dayEnd, err := time.Parse("15:04:05", cfg.DayEndCutoff)
	if err != nil {
		return attendance.ShiftPolicy{}, fmt.Errorf("invalid SHIFT_DAY_END_CUTOFF: %w", err)
	}

	return attendance.ShiftPolicy{
		Location: loc,
		Start:    time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute,
		Grace:    time.Duration(cfg.GraceMinutes) * time.Minute,
		DayEnd: time.Duration(dayEnd.Hour())*time.Hour +
			time.Duration(dayEnd.Minute())*time.Minute +
			time.Duration(dayEnd.Second())*time.Second,
	}, nil
}
