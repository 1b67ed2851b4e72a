package config

import (
	_ "github.com/go-resave/resave/bundlers/raw"
)
