package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/auth"
	"github.com/notifycsc/notify-csc/internal/platform/config"
	"github.com/notifycsc/notify-csc/internal/platform/ids"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/mongo"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Error("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	client, err := mongo.NewClient(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to MongoDB", "err", err)
		os.Exit(1)
	}
	defer client.Close(ctx)

	if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
		log.Error("failed to ensure indexes", "err", err)
		os.Exit(1)
	}

	opTimeout := time.Duration(cfg.MongoOpTimeoutMs) * time.Millisecond
	users := mongo.NewUserRepo(client.DB, opTimeout)
	insurances := mongo.NewInsuranceRepo(client.DB, users, opTimeout)

	log.Info("seeding admin")
	adminID, err := seedAdmin(ctx, users, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		log.Error("failed to seed admin", "err", err)
		os.Exit(1)
	}

	log.Info("seeding insurances")
	seedInsurances(ctx, log, core.NewInsuranceService(insurances), adminID)

	log.Info("done seeding")
}

func seedAdmin(ctx context.Context, users *mongo.UserRepoMongo, email, password string) (string, error) {
	if u, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("admin exists: %s\n", u.Email)
		return u.ID, nil
	} else if !errors.Is(err, core.ErrNotFound) {
		return "", err
	}

	hash, err := auth.NewBcryptHasher().Hash(password)
	if err != nil {
		return "", err
	}
	now := time.Now()
	u := core.User{
		ID:           ids.New(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         core.RoleAdmin,
		Status:       core.UserStatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return "", err
	}
	fmt.Printf("seeded admin: %s\n", u.Email)
	return u.ID, nil
}

func seedInsurances(ctx context.Context, log *slog.Logger, svc core.InsuranceService, adminID string) {
	today := core.StartOfDay(time.Now())
	day := func(n int) time.Time { return today.AddDate(0, 0, n) }

	records := []core.InsuranceInput{
		{
			RegistrationNumber: "KL-07-AB-1234",
			CustomerName:       "Anil Kumar",
			MobileNumber:       "9876543210",
			VehicleType:        core.VehicleFourWheeler,
			InsuranceType:      core.InsurancePackage,
			PolicyStartDate:    day(-360),
			PolicyExpiryDate:   day(5),
		},
		{
			RegistrationNumber:    "KL 01 BC 4321",
			CustomerName:          "Meera Nair",
			MobileNumber:          "9447012345",
			AlternateMobileNumber: "9876543210",
			VehicleType:           core.VehicleTwoWheeler,
			InsuranceType:         core.InsuranceThirdParty,
			PolicyStartDate:       day(-354),
			PolicyExpiryDate:      day(12),
		},
		{
			RegistrationNumber: "KL39C7788",
			CustomerName:       "Suresh Babu",
			MobileNumber:       "9995551234",
			VehicleType:        core.VehicleGoods,
			InsuranceType:      core.InsuranceThirdParty,
			PolicyStartDate:    day(-340),
			PolicyExpiryDate:   day(25),
		},
		{
			RegistrationNumber: "KL11D2020",
			CustomerName:       "Fathima Beevi",
			MobileNumber:       "9020304050",
			VehicleType:        core.VehiclePassenger,
			InsuranceType:      core.InsuranceStandaloneOD,
			PolicyStartDate:    day(-400),
			PolicyExpiryDate:   day(-10),
			Remarks:            "Customer informed by phone",
		},
		{
			RegistrationNumber: "KL05E9090",
			CustomerName:       "Joseph Mathew",
			MobileNumber:       "9846098460",
			VehicleType:        core.VehicleFourWheeler,
			InsuranceType:      core.InsurancePackage,
			PolicyStartDate:    day(-100),
			PolicyExpiryDate:   day(265),
		},
	}

	for _, in := range records {
		ins, err := svc.Add(ctx, in, adminID)
		if err != nil {
			log.Error("failed to seed insurance", "customer", in.CustomerName, "err", err)
			continue
		}
		fmt.Printf("seeded: %s (%s)\n", ins.RegistrationNumber, ins.CustomerName)
	}
}
