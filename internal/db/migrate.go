package db

import (
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Genre{},
		&model.RailwayLine{},
		&model.Station{},
		&model.Plan{},
		&model.Store{},
		&model.StoreEditRequest{},
		&model.EditToken{},
		&model.ReviewReport{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	// マスタデータ (検索・掲載プランに必要)
	if err := seedGenres(); err != nil {
		logger.Error("Failed to seed genres", err)
		return err
	}
	if err := seedRailwayLines(); err != nil {
		logger.Error("Failed to seed railway lines", err)
		return err
	}
	if err := seedPlans(); err != nil {
		logger.Error("Failed to seed plans", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedGenres 業種マスタの初期データ生成
func seedGenres() error {
	var count int64
	if err := DB.Model(&model.Genre{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Genres already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding genre data...")

	genres := []model.Genre{
		{Name: "居酒屋", SortOrder: 1},
		{Name: "ラーメン", SortOrder: 2},
		{Name: "カフェ", SortOrder: 3},
		{Name: "焼肉", SortOrder: 4},
		{Name: "寿司", SortOrder: 5},
		{Name: "イタリアン", SortOrder: 6},
		{Name: "中華料理", SortOrder: 7},
		{Name: "美容室", SortOrder: 8},
		{Name: "整体・マッサージ", SortOrder: 9},
		{Name: "クリーニング", SortOrder: 10},
	}

	for _, genre := range genres {
		if err := DB.Create(&genre).Error; err != nil {
			logger.Error("Failed to create genre", err, map[string]interface{}{
				"genre": genre.Name,
			})
			return err
		}
	}

	logger.Info("Genres seeded successfully", map[string]interface{}{
		"total_genres": len(genres),
	})
	return nil
}

// seedRailwayLines 路線・駅マスタの初期データ生成
func seedRailwayLines() error {
	var count int64
	if err := DB.Model(&model.RailwayLine{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Railway lines already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding railway line data...")

	lines := []struct {
		name     string
		company  string
		stations []string
	}{
		{"JR山手線", "JR東日本", []string{"新宿", "渋谷", "池袋", "東京", "品川", "上野"}},
		{"JR中央線", "JR東日本", []string{"中野", "高円寺", "荻窪", "吉祥寺", "三鷹", "立川"}},
		{"東京メトロ丸ノ内線", "東京メトロ", []string{"新宿三丁目", "四谷三丁目", "赤坂見附", "銀座"}},
		{"東急東横線", "東急電鉄", []string{"中目黒", "学芸大学", "自由が丘", "武蔵小杉", "横浜"}},
	}

	totalStations := 0
	for i, l := range lines {
		line := model.RailwayLine{Name: l.name, Company: l.company, SortOrder: i + 1}
		if err := DB.Create(&line).Error; err != nil {
			logger.Error("Failed to create railway line", err, map[string]interface{}{
				"line": l.name,
			})
			return err
		}

		for j, name := range l.stations {
			station := model.Station{
				Name:          name,
				RailwayLineID: line.ID,
				SortOrder:     j + 1,
			}
			if err := DB.Create(&station).Error; err != nil {
				logger.Error("Failed to create station", err, map[string]interface{}{
					"station": name,
					"line":    l.name,
				})
				return err
			}
			totalStations++
		}
	}

	logger.Info("Railway lines seeded successfully", map[string]interface{}{
		"total_lines":    len(lines),
		"total_stations": totalStations,
	})
	return nil
}

// seedPlans 掲載プランマスタの初期データ生成
func seedPlans() error {
	var count int64
	if err := DB.Model(&model.Plan{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Plans already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding plan data...")

	plans := []model.Plan{
		{Code: "free", Name: "無料プラン", MonthlyFee: 0, CanRecruit: false, PhotoLimit: 1},
		{Code: "standard", Name: "スタンダードプラン", MonthlyFee: 5000, CanRecruit: true, PhotoLimit: 5},
		{Code: "premium", Name: "プレミアムプラン", MonthlyFee: 15000, CanRecruit: true, PhotoLimit: 20},
	}

	for _, plan := range plans {
		if err := DB.Create(&plan).Error; err != nil {
			logger.Error("Failed to create plan", err, map[string]interface{}{
				"plan": plan.Code,
			})
			return err
		}
	}

	logger.Info("Plans seeded successfully", map[string]interface{}{
		"total_plans": len(plans),
	})
	return nil
}
