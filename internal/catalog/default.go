package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"log"
	"os"
	"path"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/verin/lumitrack/internal/chart/parse"
)

type DefaultCatalog struct {
	db   *sql.DB
	file string

	parser parse.Parser
}

func NewDefaultCatalog(file string, parser parse.Parser) *DefaultCatalog {
	return &DefaultCatalog{file: file, parser: parser}
}

func (c *DefaultCatalog) Init() error {
	db, err := sql.Open("sqlite3", c.file)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists charts
	  (
		  sum text not null primary key,
		  path text,
		  title text,
		  tempo real,
		  measures integer,
		  seen integer
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	c.db = db
	return nil
}

func (c *DefaultCatalog) Deinit() {
	if nil != c.db {
		c.db.Close()
	}
}

func hashFile(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (c *DefaultCatalog) Scan(dir string) error {
	return filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() || path.Ext(info.Name()) != ".trk" {
			return nil
		}
		data, err := os.ReadFile(p)
		if nil != err {
			log.Println("unable to read chart", p, err)
			return nil
		}
		ch, err := c.parser.Parse(p)
		if nil != err {
			// A bad chart should not abort the whole scan.
			log.Println("unable to parse chart", p, err)
			return nil
		}
		_, err = c.db.Exec(
			`insert into charts(sum, path, title, tempo, measures, seen)
			 values(?, ?, ?, ?, ?, strftime('%s', 'now'))
			 on conflict(sum) do update set
			   path = excluded.path, seen = excluded.seen`,
			hashFile(data), p, ch.Header.Title, ch.Header.Tempo, ch.Header.Measures)
		if nil != err {
			log.Println("unable to record chart", p, err)
		}
		return nil
	})
}

func (c *DefaultCatalog) List() ([]Entry, error) {
	rows, err := c.db.Query("select sum, path, title, tempo, measures from charts order by seen desc")
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Sum, &e.Path, &e.Title, &e.Tempo, &e.Measures); nil != err {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
