package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/stakahashi/machinavi-backend/config"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 店舗一括取り込みツール
// 期待する列: 店舗名, カナ, 住所, 電話番号, ジャンル, 最寄り駅, 開店, 閉店, 定休日, オーナーメール
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	storeRepo := repository.NewStoreRepository(db.GetDB())
	masterRepo := repository.NewMasterRepository(db.GetDB())

	// マスタ名→IDの索引を先に作る
	genreIDs := make(map[string]uint)
	genres, err := masterRepo.FindGenres()
	if err != nil {
		log.Fatal("Failed to load genres:", err)
	}
	for _, g := range genres {
		genreIDs[g.Name] = g.ID
	}

	stationIDs := make(map[string]uint)
	stations, err := masterRepo.FindStations(nil)
	if err != nil {
		log.Fatal("Failed to load stations:", err)
	}
	for _, s := range stations {
		stationIDs[s.Name] = s.ID
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	stores, skipped, err := readStoresFromXLSX(filePath, genreIDs, stationIDs)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Stores to import: %d (skipped: %d)\n", len(stores), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := storeRepo.BulkCreate(stores); err != nil {
		log.Fatal("Failed to bulk create stores:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total stores imported: %d\n", len(stores))
}

func readStoresFromXLSX(filePath string, genreIDs, stationIDs map[string]uint) ([]model.Store, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var stores []model.Store
	seen := make(map[string]bool) // 店舗名+住所で重複排除
	skipped := 0

	for i, row := range rows {
		// 先頭行はヘッダー
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skipped++
			continue
		}

		col := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		name := col(0)
		kana := col(1)
		address := col(2)
		phone := col(3)
		genreName := col(4)
		stationName := col(5)
		openTime := col(6)
		closeTime := col(7)
		regularHoliday := col(8)
		ownerEmail := col(9)

		if name == "" || address == "" {
			skipped++
			continue
		}

		key := name + "|" + address
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		store := model.Store{
			Name:           name,
			Kana:           kana,
			Address:        address,
			PhoneNumber:    phone,
			OpenTime:       openTime,
			CloseTime:      closeTime,
			RegularHoliday: regularHoliday,
			OwnerEmail:     ownerEmail,
			IsActive:       true,
		}

		if genreName != "" {
			if id, ok := genreIDs[genreName]; ok {
				store.GenreID = &id
			} else {
				fmt.Printf("Row %d: unknown genre %q, leaving unset\n", i+1, genreName)
			}
		}
		if stationName != "" {
			if id, ok := stationIDs[stationName]; ok {
				store.StationID = &id
			} else {
				fmt.Printf("Row %d: unknown station %q, leaving unset\n", i+1, stationName)
			}
		}

		stores = append(stores, store)
	}

	return stores, skipped, nil
}
