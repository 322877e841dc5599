package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
)

// errExit — ввод закончился (EOF) или контекст отменён.
var errExit = errors.New("console: exit")

// Console — интерактивный интерфейс автомата для одного покупателя.
type Console struct {
	machine usecase.MachineUC
	lines   <-chan string
	out     io.Writer
	logger  logger.Logger
}

// NewConsole запускает чтение in построчно в отдельной горутине.
func NewConsole(machine usecase.MachineUC, in io.Reader, out io.Writer, logger logger.Logger) *Console {
	return &Console{
		machine: machine,
		lines:   readLines(in),
		out:     out,
		logger:  logger,
	}
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()
	return lines
}

// Run обслуживает покупателей, пока не закончится ввод или не будет отменён ctx.
func (c *Console) Run(ctx context.Context) error {
	c.say("Welcome! Press Ctrl+C to exit.\n\n")

	for {
		if c.machine.AvailableProductsEmpty() {
			c.say("There are no available products. Please come back later.\n")
			return nil
		}

		err := c.serveCustomer(ctx)
		if errors.Is(err, errExit) {
			if refund := c.machine.Cancel(); !refund.IsEmpty() {
				c.say(fmt.Sprintf("\nPlease take your money back: %s", refund))
			}
			c.say("\nGood bye!\n")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) serveCustomer(ctx context.Context) error {
	for c.machine.CurrentProduct() == nil {
		if err := c.selectProduct(ctx); err != nil {
			return err
		}
	}

	for !c.machine.HasSufficientFunds() {
		if err := c.collectCoin(ctx); err != nil {
			return err
		}
	}

	c.confirmPurchase(ctx)
	return nil
}

func (c *Console) selectProduct(ctx context.Context) error {
	product, err := c.chooseProduct(ctx)
	if err != nil {
		return err
	}

	ok, err := c.agree(ctx, fmt.Sprintf("\nYou have selected: %s. Proceed to checkout? ", product.Format(true, false)))
	if err != nil || !ok {
		return err
	}

	if err := c.machine.SelectProduct(product); err != nil {
		c.logger.Warnf("console: select product: %v", err)
		c.say("Sorry, this product is no longer available.\n")
	}

	return nil
}

func (c *Console) chooseProduct(ctx context.Context) (*domain.Product, error) {
	products := c.machine.AvailableProducts()

	for {
		for i, p := range products {
			c.say(fmt.Sprintf("%d. %s\n", i+1, p.Format(true, true)))
		}
		c.say("Please choose a product: ")

		answer, err := c.readLine(ctx)
		if err != nil {
			return nil, err
		}

		if product := matchProduct(products, answer); product != nil {
			return product, nil
		}
		c.say("You must choose one of the listed products.\n")
	}
}

// matchProduct ищет товар по номеру в меню или по названию без учёта регистра.
func matchProduct(products []*domain.Product, answer string) *domain.Product {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(products) {
			return products[n-1]
		}
		return nil
	}

	for _, p := range products {
		if strings.EqualFold(p.Name, answer) {
			return p
		}
	}
	return nil
}

func (c *Console) agree(ctx context.Context, question string) (bool, error) {
	c.say(question)

	for {
		answer, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.say(`Please enter "yes" or "no". `)
	}
}

func (c *Console) collectCoin(ctx context.Context) error {
	c.say(fmt.Sprintf("\nInserted amount: %s. Please insert a coin (available coins: %s): ",
		domain.FormatAmount(c.machine.InsertedSum()), availableCoins()))

	answer, err := c.readLine(ctx)
	if err != nil {
		return err
	}

	coin, err := domain.ParseDenomination(answer)
	if err != nil {
		c.say(fmt.Sprintf("Unknown coin %q.\n", answer))
		return nil
	}

	if err := c.machine.InsertCoin(coin); err != nil {
		c.logger.Warnf("console: insert coin: %v", err)
		c.say(fmt.Sprintf("Coin %s was not accepted.\n", coin))
	}

	return nil
}

func (c *Console) confirmPurchase(ctx context.Context) {
	res, _, err := c.machine.ConfirmPurchase(ctx)
	switch {
	case err == nil && res != nil:
		c.say(fmt.Sprintf("\nPurchase is successful. Your change: %s\n\n", formatChange(res.Sale.Change)))
	case errors.Is(err, e.ErrInsufficientChange):
		c.say("\nThere is not enough change. Please take your money back.\n\n")
	case errors.Is(err, e.ErrInsufficientFunds):
		c.say("\nNot enough money inserted. Please take your money back.\n\n")
	case err != nil:
		c.logger.Errorf(err, "console: confirm purchase")
		c.say("\nSomething went wrong. Please take your money back.\n\n")
	}
}

func formatChange(change domain.CoinBag) string {
	if change.IsEmpty() {
		return "none"
	}
	return change.String()
}

func availableCoins() string {
	denominations := domain.Denominations()
	parts := make([]string, len(denominations))
	for i, d := range denominations {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", errExit
	case line, ok := <-c.lines:
		if !ok {
			return "", errExit
		}
		return line, nil
	}
}

func (c *Console) say(s string) {
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Warnf("console: write failed: %v", err)
	}
}
