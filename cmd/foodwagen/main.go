// main.go — точка входа FoodWagen.
// serve — HTTP-сервер каталога для UI; list/search/add/edit/delete — те же
// операции каталога из командной строки (результат — JSON в stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bigkaa/foodwagen/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "foodwagen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foodwagen",
		Short: "FoodWagen — каталог блюд поверх внешнего Food API",
		Long: `FoodWagen нормализует записи внешнего Food API, валидирует черновики
и синхронизирует каталог: загрузка, поиск, постраничный просмотр, создание,
редактирование и удаление. Конфигурация — переменные окружения FW_* и .env.`,
		Version:      config.Version,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newListCmd(),
		newSearchCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
	)
	return cmd
}
