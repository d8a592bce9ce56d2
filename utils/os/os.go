package os

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func LoadEnvFile(filename string) error {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("ERROR_IN_LOAD_ENV_FILE_STAT_FILENAME: %w", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("ERROR_IN_LOAD_ENV_FILE_OPEN: %w", err)
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			panic(err)
		}
	}(file)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]
		err := os.Setenv(key, value)
		if err != nil {
			return fmt.Errorf("ERROR_IN_LOAD_ENV_FILE_SETENV: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ERROR_IN_LOAD_ENV_FILE_SCAN: %w", err)
	}

	return nil
}

func GetEnvDefaultValue(key string, defaultValue string) string {
	value, isPresent := os.LookupEnv(key)
	if !isPresent {
		value = defaultValue
	}
	return value
}
