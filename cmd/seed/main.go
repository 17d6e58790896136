package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/jcamil/bienes-raices/internal/config"
	"github.com/jcamil/bienes-raices/internal/database"
	"github.com/jcamil/bienes-raices/internal/models"
)

var categories = []models.Category{
	{Name: "Casa"},
	{Name: "Departamento"},
	{Name: "Bodega"},
	{Name: "Terreno"},
	{Name: "Cabaña"},
	{Name: "Garaje"},
}

var prices = []models.Price{
	{Name: "0 - 10,000 US$"},
	{Name: "10,000 - 30,000 US$"},
	{Name: "30,000 - 50,000 US$"},
	{Name: "50,000 - 75,000 US$"},
	{Name: "75,000 - 100,000 US$"},
	{Name: "100,000 - 150,000 US$"},
	{Name: "150,000 - 200,000 US$"},
	{Name: "200,000 - 300,000 US$"},
	{Name: "+300,000 US$"},
}

func demoUsers() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return []models.User{
		{
			Name:         "Juan",
			Email:        "jcamil-2010@hotmail.com",
			PasswordHash: string(hash),
			Confirmed:    true,
		},
	}, nil
}

func importData(db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	users, err := demoUsers()
	if err != nil {
		return err
	}

	// The three inserts are independent of each other.
	var g errgroup.Group
	g.Go(func() error {
		return db.Create(&categories).Error
	})
	g.Go(func() error {
		return db.Create(&prices).Error
	})
	g.Go(func() error {
		return db.Create(&users).Error
	})
	return g.Wait()
}

func main() {
	importFlag := flag.Bool("i", false, "import baseline categories, prices and demo users")
	eraseFlag := flag.Bool("e", false, "drop and recreate the schema, destroying all data")
	flag.Parse()

	if !*importFlag && !*eraseFlag {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if *eraseFlag {
		if err := database.Reset(db); err != nil {
			log.Println(err)
			os.Exit(1)
		}
		log.Println("Datos eliminados correctamente")
	}

	if *importFlag {
		if err := importData(db); err != nil {
			log.Println(err)
			os.Exit(1)
		}
		log.Println("Datos importados correctamente")
	}

	os.Exit(0)
}
