package main

import (
	"fmt"
	"log"
	"time"

	"github.com/focusup/internal/config"
	"github.com/focusup/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：创建一个演示账号并灌入最近三周的活动数据
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	user := createDemoUser()
	createDemoHabits(user.ID)
	createDemoSessions(user.ID)
	createDemoTodos(user.ID)

	fmt.Println("演示数据生成完成")
}

func createDemoUser() db.User {
	var existing db.User
	if err := db.DB.Where("username = ?", "demo").First(&existing).Error; err == nil {
		fmt.Println("演示用户已存在，跳过创建")
		return existing
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{Username: "demo", Password: string(hashed)}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建演示用户失败:", err)
	}
	fmt.Println("创建演示用户: demo / demo1234")
	return user
}

func createDemoHabits(userID uint) {
	now := time.Now()

	habits := []db.Habit{
		{UserID: userID, Name: "晨间阅读", TargetFrequency: "daily", SpecificDays: []int{}},
		{UserID: userID, Name: "周度复盘", TargetFrequency: "weekly", SpecificDays: []int{}},
		{UserID: userID, Name: "力量训练", TargetFrequency: "specific_days", SpecificDays: []int{1, 3, 5}},
	}

	for i := range habits {
		if err := db.DB.Create(&habits[i]).Error; err != nil {
			log.Fatal("创建演示习惯失败:", err)
		}
	}

	// 给晨间阅读补最近 5 天的连续打卡
	reading := &habits[0]
	for offset := 4; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		completion := db.HabitCompletion{HabitID: reading.ID, CompletedAt: day}
		if err := db.DB.Create(&completion).Error; err != nil {
			log.Fatal("创建打卡流水失败:", err)
		}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reading.CurrentStreak = 5
	reading.LongestStreak = 5
	reading.LastCompletedDate = &today
	if err := db.DB.Save(reading).Error; err != nil {
		log.Fatal("更新演示习惯失败:", err)
	}
}

func createDemoSessions(userID uint) {
	now := time.Now()

	for offset := 20; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		// 工作日的上午与下午各一个番茄段
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range []int{9, 15} {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			session := db.PomodoroSession{
				UserID:          userID,
				StartTime:       start,
				EndTime:         start.Add(25 * time.Minute),
				DurationMinutes: 25,
				SessionType:     db.SessionTypeWork,
				TaskAssociated:  "深度工作",
			}
			if err := db.DB.Create(&session).Error; err != nil {
				log.Fatal("创建演示会话失败:", err)
			}
		}
	}
}

func createDemoTodos(userID uint) {
	now := time.Now()
	completedAt := now.AddDate(0, 0, -2)

	todos := []db.Todo{
		{UserID: userID, TaskName: "整理项目周报", IsCompleted: true, CompletedAt: &completedAt},
		{UserID: userID, TaskName: "准备下周评审材料"},
	}

	for i := range todos {
		if err := db.DB.Create(&todos[i]).Error; err != nil {
			log.Fatal("创建演示待办失败:", err)
		}
	}
}
