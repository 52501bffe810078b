// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Remove deletes the named modules. A publisher directory left empty is
// removed as well.
func (o *Orchestrator) Remove(ctx context.Context, tokens []string) (*Report, error) {
	rep := &Report{}
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		m, err := o.resolver.Locate(token)
		if err != nil {
			o.fail(rep, token, err)
			continue
		}
		if _, err := os.Stat(m.InstallPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%w: nothing at %s", ErrNotInstalled, m.FormattedInstallPath)
			} else {
				err = fmt.Errorf("%w: %w", ErrFilesystem, err)
			}
			o.fail(rep, m.Ident.String(), err)
			continue
		}

		if err := o.removeDir(m); err != nil {
			o.fail(rep, m.Ident.String(), err)
			continue
		}
		o.logger.Debug("removed", "module", m.Ident)
		rep.Removed = append(rep.Removed, m.Ident.String())
	}
	return rep, nil
}
