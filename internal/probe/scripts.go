package probe

// Skeletons are Go templates over Params. Backslash escapes are meant for
// stap, not Go, so these are raw strings.
//
// ubacktrace strings only symbolize against the task that is current when
// they are printed, so sampling prints from cpu_on of the target once the
// timer has set quit.

const preamble = `probe begin {
    warn(sprintf("Tracing %d (%s)...\n", target(), {{stapstr .ExePath}}))
}
`

const samplingBody = `global bts
global start_time
global quit

probe scheduler.cpu_off {
    if (pid() == target()) {
        start_time[tid()] = gettimeofday_us()
    }
}

probe scheduler.cpu_on {
    if (pid() == target()) {
        if (quit) {
            quit = 0
            foreach (bt in bts- limit {{.Limit}}) {
                print_ustack(bt)
                printf("\t%d\n", bts[bt])
            }
            exit()
        }

        t = tid()
        begin = start_time[t]
        if (begin > 0) {
            elapsed = gettimeofday_us() - begin
            if (elapsed >= {{.MinElapsedUS}}) {
                bts[ubacktrace()] += elapsed
            }
            delete start_time[t]
        }
    }
}

probe timer.s({{.Seconds}}) {
    nstacks = 0
    foreach (bt in bts limit 1) {
        nstacks++
    }

    if (nstacks == 0) {
        warn("Too few backtraces found. Try a larger -t option or a smaller --min option.\n")
        exit()
    }

    warn("Time's up. Quitting now...(it may take a while)\n")
    quit = 1
}
`

const distributionBody = `global elapsed_times
global start_time

probe scheduler.cpu_off {
    if (pid() == target()) {
        start_time[tid()] = gettimeofday_us()
    }
}

probe scheduler.cpu_on {
    if (pid() == target()) {
        t = tid()
        begin = start_time[t]
        if (begin > 0) {
            elapsed = gettimeofday_us() - begin
            if (elapsed >= {{.MinElapsedUS}}) {
                elapsed_times <<< elapsed
            }
            delete start_time[t]
        }
    }
}

probe timer.s({{.Seconds}}) {
    warn("Time's up. Quitting now...\n")
    exit()
}
`

const distributionPostamble = `probe end {
    if (@count(elapsed_times) == 0) {
        warn("No off-CPU samples collected. Try a larger -t option or a smaller --min option.\n")
    } else {
        printf("min/avg/max: %d/%d/%d us\n", @min(elapsed_times), @avg(elapsed_times), @max(elapsed_times))
        println(@hist_log(elapsed_times))
    }
}
`
