/*
Copyright 2024 The CTrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Catter58/CTrack/pkg/setting"
)

func init() {
	viper.AutomaticEnv()
}

// SystemAddress is the fully qualified domain name of the system, or an IP
// address. Port and protocol are required if necessary.
func SystemAddress() string {
	return viper.GetString(setting.ENVSystemAddress)
}

func Mode() string {
	mode := viper.GetString(setting.ENVMode)
	if mode == "" {
		return setting.DebugMode
	}

	return mode
}

func Port() string {
	port := viper.GetString(setting.ENVPort)
	if port == "" {
		return ":8600"
	}
	return ":" + port
}

func LogLevel() string {
	level := viper.GetString(setting.ENVLogLevel)
	if level == "" {
		return "debug"
	}
	return level
}

func SendLogToFile() bool {
	return Mode() == setting.ReleaseMode
}

func LogPath() string {
	return fmt.Sprintf("/var/log/%s/", setting.ProductName)
}

func LogFile() string {
	return LogPath() + setting.ProductName + ".log"
}

func MongoURI() string {
	return viper.GetString(setting.ENVMongoDBConnectionString)
}

func MongoDatabase() string {
	db := viper.GetString(setting.ENVCTrackDBName)
	if db == "" {
		return setting.ProductName
	}
	return db
}

func RedisHost() string {
	host := viper.GetString(setting.ENVRedisHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func RedisPort() int {
	port := viper.GetInt(setting.ENVRedisPort)
	if port == 0 {
		return 6379
	}
	return port
}

func RedisUserName() string {
	return viper.GetString(setting.ENVRedisUserName)
}

func RedisPassword() string {
	return viper.GetString(setting.ENVRedisPassword)
}

func RedisEventBusDB() int {
	return viper.GetInt(setting.ENVRedisEventBusDB)
}

func RedisCacheDB() int {
	return viper.GetInt(setting.ENVRedisCacheDB)
}
