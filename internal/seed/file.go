package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 初期データのYAML
type File struct {
	Admin      UserSeed       `yaml:"admin"`
	Categories []CategorySeed `yaml:"categories"`
	Artists    []ArtistSeed   `yaml:"artists"`
	Products   []ProductSeed  `yaml:"products"`
}

type UserSeed struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

type CategorySeed struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"` // 空ならnameから作る
}

type ArtistSeed struct {
	User      UserSeed `yaml:"user"`
	Name      string   `yaml:"name"`
	Bio       string   `yaml:"bio"`
	Specialty string   `yaml:"specialty"`
	PhotoURL  string   `yaml:"photo_url"`
}

type ProductSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int64  `yaml:"stock"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"` // slug
	Artist      string `yaml:"artist"`   // 作家ユーザーのusername
	ImageURL    string `yaml:"image_url"`
	Featured    bool   `yaml:"featured"`
	Hidden      bool   `yaml:"hidden"`
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if f.Admin.Email == "" {
		return nil, fmt.Errorf("parse seed yaml: admin.email is required")
	}
	return &f, nil
}
