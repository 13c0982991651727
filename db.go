package tilemask

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bodgit/tilemask/config"
	"github.com/bodgit/tilemask/mask"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoMask is returned when no mask has been stored for an image
var ErrNoMask = errors.New("no mask stored for image")

// MaskDB stores masks against the SHA1 of the image they were made for, along
// with the editor configuration.
type MaskDB struct {
	db *sql.DB
}

func NewMaskDB(file string) (*MaskDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS mask (image_id INTEGER NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, data BLOB NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS setting (key TEXT PRIMARY KEY NOT NULL, value TEXT NOT NULL)"); err != nil {
		return nil, err
	}

	return &MaskDB{
		db: db,
	}, nil
}

func (db *MaskDB) Close() error {
	return db.db.Close()
}

func (db *MaskDB) addImage(sha string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO image (sha1) VALUES (?)", sha)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// SaveMask stores m for the image with the given SHA1, replacing any
// existing mask.
func (db *MaskDB) SaveMask(sha string, m *mask.Mask) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}

	id, err := db.addImage(sha)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO mask (image_id, width, height, data) VALUES (?, ?, ?, ?)", id, m.Width(), m.Height(), b); err != nil {
		return err
	}
	return nil
}

// FindMaskBySHA1 returns the mask stored for the image with the given SHA1.
func (db *MaskDB) FindMaskBySHA1(sha string) (*mask.Mask, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT m.data FROM image AS i JOIN mask AS m ON m.image_id = i.id WHERE i.sha1 = ?", sha).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, ErrNoMask
	case nil:
		m := new(mask.Mask)
		if err := m.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, err
	}
}

// LoadConfig returns the stored configuration, using defaults for anything
// not yet saved.
func (db *MaskDB) LoadConfig() (config.Config, error) {
	rows, err := db.db.Query("SELECT key, value FROM setting")
	if err != nil {
		return config.Config{}, err
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return config.Config{}, err
		}
		m[k] = v
	}
	if err := rows.Err(); err != nil {
		return config.Config{}, err
	}

	return config.FromMap(m)
}

// SaveConfig stores every setting in c
func (db *MaskDB) SaveConfig(c config.Config) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	for k, v := range c.Map() {
		if _, err := tx.Exec("INSERT OR REPLACE INTO setting (key, value) VALUES (?, ?)", k, v); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
