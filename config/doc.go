/*
Package config loads the mothership configuration.

Configuration comes from a YAML file, then from a .env file in the working
directory when one exists, then from the process environment. Later sources
win.

	port: 8080
	log:
	  level: info
	  dir: logs
	  file: mothership.log
	store:
	  backend: badger          # badger | dynamodb | memory
	  path: mothership_db
	  sync_writes: true
	  gc_interval: 10m
	  dynamodb:
	    table: mothership
	    region: us-east-1
	    endpoint: ""

Recognised environment variables are MOTHERSHIP_PORT, MOTHERSHIP_LOG_LEVEL,
MOTHERSHIP_STORE_BACKEND, MOTHERSHIP_STORE_PATH, AWS_ACCESS_KEY, AWS_SECRET_KEY,
AWS_REGION, AWS_DDB_TABLE and AWS_DDB_ENDPOINT. AWS credentials are never read
from the YAML file.
*/
package config
