package bot

import "mew/service"

// Services are the write-through services the Discord layer reads and mutates
type Services struct {
	Alerts       *service.AlertService
	Checklist    *service.ChecklistService
	Reminders    *service.ReminderService
	Schedules    *service.ScheduleService
	Auctions     *service.AuctionService
	Timers       *service.TimerService
	Utility      *service.UtilityService
	Users        *service.UserInfoService
	FactionBalls *service.FactionBallService
	SpookyHour   *service.SpookyHourService
	BattleTower  *service.BattleTowerService
	Market       *service.MarketService
	Purge        *service.PurgeService
}
