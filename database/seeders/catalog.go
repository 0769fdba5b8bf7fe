package seeders

import (
	"log"

	"gorm.io/gorm"
	"repair-booking/models/service"
	"repair-booking/models/technician"
)

func SeedServices(db *gorm.DB) {
	log.Printf("🔍 Checking service catalog data integrity...")

	services := []service.Service{
		{Name: "CCTV Installation", CategoryName: "Security", Description: "Supply and installation of CCTV cameras and DVR setup", BasePrice: 4500},
		{Name: "CCTV Repair", CategoryName: "Security", Description: "Diagnosis and repair of existing camera systems", BasePrice: 1200},
		{Name: "Intercom Setup", CategoryName: "Security", Description: "Apartment and office intercom installation", BasePrice: 2500},
		{Name: "AC Installation", CategoryName: "Cooling", Description: "Split and window AC installation with piping", BasePrice: 3500},
		{Name: "AC Servicing", CategoryName: "Cooling", Description: "Full AC cleaning and gas pressure check", BasePrice: 1500},
		{Name: "Refrigerator Repair", CategoryName: "Cooling", Description: "Compressor, thermostat and gas refill work", BasePrice: 1800},
		{Name: "House Wiring", CategoryName: "Electrical", Description: "New wiring and rewiring for homes and offices", BasePrice: 5000},
		{Name: "Circuit Breaker Repair", CategoryName: "Electrical", Description: "Breaker panel diagnosis and replacement", BasePrice: 900},
		{Name: "Generator Maintenance", CategoryName: "Electrical", Description: "Standby generator servicing and load testing", BasePrice: 3000},
		{Name: "Pipe Leak Repair", CategoryName: "Plumbing", Description: "Detection and repair of water line leaks", BasePrice: 800},
		{Name: "Bathroom Fitting", CategoryName: "Plumbing", Description: "Installation of sanitary fittings and fixtures", BasePrice: 2200},
		{Name: "Water Pump Repair", CategoryName: "Plumbing", Description: "Domestic water pump diagnosis and repair", BasePrice: 1400},
	}

	// Get all existing service names from database
	var existingNames []string
	if err := db.Model(&service.Service{}).Pluck("name", &existingNames).Error; err != nil {
		log.Printf("❌ Failed to fetch existing service names: %v", err)
		return
	}

	existingNamesMap := make(map[string]bool)
	for _, name := range existingNames {
		existingNamesMap[name] = true
	}

	var missingServices []service.Service
	for _, svc := range services {
		if !existingNamesMap[svc.Name] {
			missingServices = append(missingServices, svc)
		}
	}

	log.Printf("📊 Data integrity check:")
	log.Printf("   Expected services: %d", len(services))
	log.Printf("   Existing services: %d", len(existingNames))
	log.Printf("   Missing services: %d", len(missingServices))

	if len(missingServices) == 0 {
		log.Printf("✅ Service catalog is already complete. No seeding needed.")
		return
	}

	log.Printf("🌱 Seeding %d missing services...", len(missingServices))

	successCount := 0
	failureCount := 0

	for _, svc := range missingServices {
		if err := db.Create(&svc).Error; err != nil {
			log.Printf("❌ Failed to seed service %s (%s): %v", svc.Name, svc.CategoryName, err)
			failureCount++
		} else {
			log.Printf("✅ Added: %s (%s)", svc.Name, svc.CategoryName)
			successCount++
		}
	}

	log.Printf("🎉 Seeding completed! Successfully inserted %d services, %d failures", successCount, failureCount)
}

func SeedTechnicians(db *gorm.DB) {
	// Technicians are only seeded into an empty table; live rosters are
	// managed by the admin.
	var count int64
	if err := db.Model(&technician.Technician{}).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to count technicians: %v", err)
		return
	}
	if count > 0 {
		log.Printf("✅ Technician roster already present (%d rows). No seeding needed.", count)
		return
	}

	technicians := []technician.Technician{
		{Name: "Karim Uddin", Phone: "01711000001", Specialty: "Security"},
		{Name: "Rasel Mia", Phone: "01711000002", Specialty: "Cooling"},
		{Name: "Habib Rahman", Phone: "01711000003", Specialty: "Electrical"},
		{Name: "Sohel Rana", Phone: "01711000004", Specialty: "Plumbing"},
	}

	log.Printf("🌱 Seeding %d technicians...", len(technicians))
	for _, t := range technicians {
		if err := db.Create(&t).Error; err != nil {
			log.Printf("❌ Failed to seed technician %s: %v", t.Name, err)
		} else {
			log.Printf("✅ Added: %s (%s)", t.Name, t.Specialty)
		}
	}
}
